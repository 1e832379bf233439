// AngelaMos | 2026
// key.go

package license

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// KeyAlphabet leaves out 0, 1, I and O.
const KeyAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const keySuffixLen = 8

// GenerateKey builds "<softwareID>-<unix millis>-<8 random symbols>". The
// alphabet has 32 symbols so every random byte maps without bias.
func GenerateKey(softwareID int64, now time.Time) (string, error) {
	buf := make([]byte, keySuffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate license key: %w", err)
	}

	suffix := make([]byte, keySuffixLen)
	for i, b := range buf {
		suffix[i] = KeyAlphabet[int(b)%len(KeyAlphabet)]
	}

	key := strconv.FormatInt(softwareID, 10) + "-" +
		strconv.FormatInt(now.UnixMilli(), 10) + "-" +
		string(suffix)

	return strings.ToUpper(key), nil
}

// ParseKey splits a key into its software id and random suffix.
func ParseKey(key string) (int64, string, error) {
	parts := strings.Split(key, "-")
	if len(parts) != 3 {
		return 0, "", fmt.Errorf("malformed license key")
	}

	softwareID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || softwareID <= 0 {
		return 0, "", fmt.Errorf("malformed license key")
	}

	if _, err := strconv.ParseInt(parts[1], 10, 64); err != nil {
		return 0, "", fmt.Errorf("malformed license key")
	}

	if len(parts[2]) != keySuffixLen {
		return 0, "", fmt.Errorf("malformed license key")
	}
	for _, c := range parts[2] {
		if !strings.ContainsRune(KeyAlphabet, c) {
			return 0, "", fmt.Errorf("malformed license key")
		}
	}

	return softwareID, parts[2], nil
}
