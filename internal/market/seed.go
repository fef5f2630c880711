package market

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	DemoSellerID    int64 = 1
	demoVariants          = 20
	demoVariantStep       = "0.5"
)

type demoSample struct {
	slug        string
	title       string
	description string
	level       int
	itemsCount  int
	price       string
}

var demoSamples = []demoSample{
	{"pubg-mobile", "Compte PUBG Mobile – Niveau 85 | Skins Rares", "Skins mythiques, armes rares, véhicules exclusifs", 85, 156, "89.99"},
	{"valorant", "Compte Valorant – Rang Immortel", "Skins premium, collection complète", 234, 78, "199.99"},
	{"fortnite", "Compte Fortnite – Skins Légendaires", "Bundle exclusif, emotes rares", 70, 120, "129.00"},
	{"call-of-duty-mobile", "Compte COD Mobile – Prestige Max", "Armes dorées, camos rares", 150, 234, "75.00"},
}

// Seed inserts the demo catalogue: every sample plus numbered variants priced base + i*0.5.
// Titles that already exist for the demo seller are skipped, so running it twice inserts nothing.
// It returns the ids of the inserted listings.
func (s *Service) Seed(ctx context.Context) ([]int64, error) {
	if err := s.Store.EnsureSeller(ctx, DemoSellerID); err != nil {
		return nil, err
	}
	step := decimal.RequireFromString(demoVariantStep)

	var inserted []int64
	for _, sample := range demoSamples {
		g, err := s.Store.GetGameBySlug(ctx, sample.slug)
		if err != nil {
			return inserted, err
		}
		if g == nil {
			continue
		}
		base := decimal.RequireFromString(sample.price)

		for i := 0; i <= demoVariants; i++ {
			title, price := sample.title, base
			if i > 0 {
				title = fmt.Sprintf("%s • Démo #%d", sample.title, i)
				price = base.Add(step.Mul(decimal.NewFromInt(int64(i)))).Round(2)
			}
			exists, err := s.Store.ListingExists(ctx, DemoSellerID, g.ID, title)
			if err != nil {
				return inserted, err
			}
			if exists {
				continue
			}
			level, items := sample.level, sample.itemsCount
			id, err := s.Store.InsertListing(ctx, NewListing{
				SellerID:    DemoSellerID,
				GameID:      g.ID,
				Title:       title,
				Description: sample.description,
				Level:       &level,
				ItemsCount:  &items,
				Price:       price,
			})
			if err != nil {
				return inserted, err
			}
			inserted = append(inserted, id)
		}
	}
	return inserted, nil
}
