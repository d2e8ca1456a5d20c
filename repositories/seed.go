package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"hors-serie-api/domain"
)

// AdminSeed son las credenciales del administrador inicial
type AdminSeed struct {
	Username string
	Password string
}

// PasswordHasher hashea el password en texto plano del administrador inicial
type PasswordHasher func(password string) (string, error)

// Seed carga el catálogo de ejemplo y el administrador inicial.
// El catálogo solo se carga si el store está vacío; el administrador solo si no existe.
func Seed(ctx context.Context, store Store, admin AdminSeed, hash PasswordHasher, log logrus.FieldLogger) error {
	count, err := store.CountProperties(ctx)
	if err != nil {
		return fmt.Errorf("repositories: seed: %w", err)
	}

	if count == 0 {
		for _, property := range SampleProperties() {
			if _, err := store.CreateProperty(ctx, property); err != nil {
				return fmt.Errorf("repositories: seed property %q: %w", property.Title, err)
			}
		}
		log.WithField("count", len(SampleProperties())).Info("Sample properties loaded")
	} else {
		log.WithField("count", count).Info("Store already has properties, skipping sample catalogue")
	}

	if admin.Username == "" || admin.Password == "" {
		log.Warn("No admin credentials configured, skipping admin user")
		return nil
	}

	if _, exists, err := store.GetUserByUsername(ctx, admin.Username); err != nil {
		return fmt.Errorf("repositories: seed admin: %w", err)
	} else if exists {
		return nil
	}

	hashed, err := hash(admin.Password)
	if err != nil {
		return fmt.Errorf("repositories: seed admin: %w", err)
	}
	_, err = store.CreateUser(ctx, domain.User{Username: admin.Username, Password: hashed})
	if err != nil && !errors.Is(err, ErrDuplicateUsername) {
		return fmt.Errorf("repositories: seed admin: %w", err)
	}

	log.WithField("username", admin.Username).Info("Admin user created")
	return nil
}

// SampleProperties devuelve el catálogo de ejemplo de la agencia, en orden de publicación
func SampleProperties() []domain.Property {
	return []domain.Property{
		{
			Title:       "Château du XVIIIe siècle",
			Description: "Magnifique château restauré avec goût, 8 chambres, parc de 2 hectares, piscine et dépendances.",
			Type:        "château",
			Price:       890000,
			City:        "Saumur",
			Address:     "12 Route du Château, Saumur",
			Latitude:    "47.2600",
			Longitude:   "-0.0769",
			Surface:     450,
			Bedrooms:    8,
			Bathrooms:   6,
			LandSize:    20000,
			Images: []string{
				"https://images.unsplash.com/photo-1564013799919-ab600027ffc6?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
				"https://images.unsplash.com/photo-1600607687939-ce8a6c25118c?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			},
			Features: []string{"Parc 2 hectares", "Piscine", "Dépendances", "Restauré avec goût"},
			Status:   domain.PropertyStatusAvailable,
			DPEValue: seedInt(180),
			GESValue: seedInt(35),
		},
		{
			Title:       "Loft Contemporain",
			Description: "Ancien atelier d'artiste transformé en loft lumineux, terrasse privative, garage double.",
			Type:        "loft",
			Price:       425000,
			City:        "Angers",
			Address:     "15 Rue des Arts, Angers Centre",
			Latitude:    "47.4784",
			Longitude:   "-0.5632",
			Surface:     185,
			Bedrooms:    3,
			Bathrooms:   2,
			LandSize:    0,
			Images: []string{
				"https://images.unsplash.com/photo-1560448204-e02f11c3d0e2?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
				"https://images.unsplash.com/photo-1600596542815-ffad4c1539a9?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			},
			Features: []string{"Terrasse privative", "Garage double", "Lumineux", "Ancien atelier d'artiste"},
			Status:   domain.PropertyStatusAvailable,
			DPEValue: seedInt(95),
			GESValue: seedInt(15),
		},
		{
			Title:       "Domaine Viticole",
			Description: "Domaine viticole en activité, 15 hectares de vignes, cave voûtée, maison de maître du XIXe.",
			Type:        "propriété viticole",
			Price:       1250000,
			City:        "Coteaux du Layon",
			Address:     "Route des Vignes, Coteaux du Layon",
			Latitude:    "47.3089",
			Longitude:   "-0.6059",
			Surface:     320,
			Bedrooms:    6,
			Bathrooms:   4,
			LandSize:    150000,
			Images: []string{
				"https://images.unsplash.com/photo-1506905925346-21bda4d32df4?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
				"https://images.unsplash.com/photo-1597149332473-7c365cc44b8d?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			},
			Features: []string{"15 hectares de vignes", "Cave voûtée", "Maison de maître XIXe", "En activité"},
			Status:   domain.PropertyStatusAvailable,
			DPEValue: seedInt(220),
			GESValue: seedInt(45),
		},
		{
			Title:       "Château Historique",
			Description: "Château du XVIe siècle, boiseries d'époque, cheminées monumentales, orangerie, étang.",
			Type:        "château",
			Price:       675000,
			City:        "Segré",
			Address:     "3 Place du Manoir, Segré",
			Latitude:    "47.6875",
			Longitude:   "-0.8700",
			Surface:     380,
			Bedrooms:    7,
			Bathrooms:   5,
			LandSize:    5000,
			Images: []string{
				"https://images.unsplash.com/photo-1605146769289-440113cc3d00?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
				"https://images.unsplash.com/photo-1564013799919-ab600027ffc6?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			},
			Features: []string{"Boiseries d'époque", "Cheminées monumentales", "Orangerie", "Étang"},
			Status:   domain.PropertyStatusAvailable,
			DPEValue: seedInt(280),
			GESValue: seedInt(60),
		},
		{
			Title:       "Villa Contemporaine",
			Description: "Villa moderne avec piscine et vue panoramique, domotique, garage triple.",
			Type:        "villa",
			Price:       520000,
			City:        "Cholet",
			Address:     "8 Avenue des Jardins, Cholet",
			Latitude:    "47.0584",
			Longitude:   "-0.8789",
			Surface:     280,
			Bedrooms:    5,
			Bathrooms:   3,
			LandSize:    1200,
			Images: []string{
				"https://images.unsplash.com/photo-1600596542815-ffad4c1539a9?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
				"https://images.unsplash.com/photo-1605146769289-440113cc3d00?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			},
			Features: []string{"Piscine", "Vue panoramique", "Domotique", "Garage triple"},
			Status:   domain.PropertyStatusAvailable,
			DPEValue: seedInt(65),
			GESValue: seedInt(8),
		},
		{
			Title:       "Maison de Maître Cholet",
			Description: "Élégante maison de maître du XIXe siècle, escalier d'honneur, salon de musique, bibliothèque.",
			Type:        "maison de maître",
			Price:       465000,
			City:        "Cholet",
			Address:     "8 Boulevard de la République, Cholet",
			Latitude:    "47.0588",
			Longitude:   "-0.8776",
			Surface:     280,
			Bedrooms:    5,
			Bathrooms:   3,
			LandSize:    1200,
			Images: []string{
				"https://images.unsplash.com/photo-1600607687939-ce8a6c25118c?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
				"https://images.unsplash.com/photo-1564013799919-ab600027ffc6?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			},
			Features: []string{"Escalier d'honneur", "Salon de musique", "Bibliothèque", "Jardin à la française"},
			Status:   domain.PropertyStatusAvailable,
			DPEValue: seedInt(200),
			GESValue: seedInt(40),
		},
		{
			Title:       "Hôtel Particulier Angers",
			Description: "Hôtel particulier restauré dans le centre historique d'Angers, 7 chambres, cave voûtée, cour d'honneur.",
			Type:        "château",
			Price:       750000,
			City:        "Angers",
			Address:     "Place Sainte-Croix, Angers Centre",
			Latitude:    "47.4716",
			Longitude:   "-0.5515",
			Surface:     420,
			Bedrooms:    7,
			Bathrooms:   5,
			LandSize:    800,
			Images: []string{
				"https://images.unsplash.com/photo-1605146769289-440113cc3d00?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
				"https://images.unsplash.com/photo-1600607687939-ce8a6c25118c?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			},
			Features: []string{"Centre historique", "Cave voûtée", "Cour d'honneur", "Restauré"},
			Status:   domain.PropertyStatusAvailable,
			DPEValue: seedInt(160),
			GESValue: seedInt(32),
		},
		{
			Title:       "Maison de Ville Élégante",
			Description: "Charmante maison de ville rénovée avec jardin privatif, proche commerces et transports.",
			Type:        "maison de ville",
			Price:       385000,
			City:        "Angers",
			Address:     "22 Rue Victor Hugo, Angers Centre",
			Latitude:    "47.4712",
			Longitude:   "-0.5549",
			Surface:     160,
			Bedrooms:    4,
			Bathrooms:   2,
			LandSize:    150,
			Images: []string{
				"https://images.unsplash.com/photo-1570129477492-45c003edd2be?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
				"https://images.unsplash.com/photo-1448630360428-65456885c650?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			},
			Features: []string{"Jardin privatif", "Centre-ville", "Rénovée", "Proche transports"},
			Status:   domain.PropertyStatusAvailable,
			DPEValue: seedInt(140),
			GESValue: seedInt(28),
		},
		{
			Title:       "Appartement Moderne",
			Description: "Appartement contemporain avec balcon et vue dégagée, résidence sécurisée avec parking.",
			Type:        "appartement",
			Price:       245000,
			City:        "Cholet",
			Address:     "5 Avenue de la Paix, Cholet",
			Latitude:    "47.0588",
			Longitude:   "-0.8730",
			Surface:     85,
			Bedrooms:    2,
			Bathrooms:   1,
			LandSize:    0,
			Images: []string{
				"https://images.unsplash.com/photo-1522708323590-d24dbb6b0267?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
				"https://images.unsplash.com/photo-1560448204-e1a96c2477d0?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			},
			Features: []string{"Balcon", "Vue dégagée", "Parking", "Résidence sécurisée"},
			Status:   domain.PropertyStatusAvailable,
			DPEValue: seedInt(85),
			GESValue: seedInt(12),
		},
	}
}

func seedInt(value int) *int {
	return &value
}
