// AngelaMos | 2026
// seed.go

package catalog

import (
	"github.com/shopspring/decimal"
)

type seedProduct struct {
	name        string
	description string
	price       string
	features    []string
}

var defaultCatalog = []seedProduct{
	{
		name:        "BusinessManager Pro",
		description: "Solution complète de gestion d'entreprise avec CRM, comptabilité et gestion des stocks intégrés",
		price:       "899.99",
		features: []string{
			"CRM avancé",
			"Comptabilité automatisée",
			"Gestion des stocks",
			"Rapports détaillés",
			"Support 24/7",
		},
	},
	{
		name:        "InventoryTracker Elite",
		description: "Système de gestion d'inventaire en temps réel avec codes-barres et analytiques avancées",
		price:       "599.99",
		features: []string{
			"Codes-barres",
			"Tracking temps réel",
			"Alertes automatiques",
			"Rapports analytiques",
			"Multi-entrepôts",
		},
	},
	{
		name:        "CustomerInsight Analytics",
		description: "Plateforme d'analyse client avec segmentation automatique et prédictions comportementales",
		price:       "1299.99",
		features: []string{
			"Segmentation IA",
			"Prédictions comportementales",
			"Tableaux de bord interactifs",
			"Intégrations API",
			"Reporting avancé",
		},
	},
	{
		name:        "ProjectFlow Manager",
		description: "Solution de gestion de projet avec collaboration en temps réel et automatisation des tâches",
		price:       "449.99",
		features: []string{
			"Collaboration temps réel",
			"Automatisation des tâches",
			"Gantt interactif",
			"Tracking du temps",
			"Notifications intelligentes",
		},
	},
	{
		name:        "SecureBackup Enterprise",
		description: "Solution de sauvegarde entreprise avec chiffrement avancé et récupération instantanée",
		price:       "799.99",
		features: []string{
			"Chiffrement 256-bit",
			"Sauvegarde automatique",
			"Récupération instantanée",
			"Déduplication",
			"Monitoring 24/7",
		},
	},
}

func (p seedProduct) software() Software {
	description := p.description
	return Software{
		Name:        p.name,
		Description: &description,
		Price:       decimal.RequireFromString(p.price),
		Features:    Features(p.features),
		IsActive:    true,
	}
}
