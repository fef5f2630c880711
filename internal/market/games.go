package market

// ReferenceGames is the fixed game catalogue shipped with the schema migrations.
func ReferenceGames() []Game {
	return []Game{
		{ID: 1, Name: "eFootball", Slug: "efootball"},
		{ID: 2, Name: "PUBG Mobile", Slug: "pubg-mobile"},
		{ID: 3, Name: "Free Fire", Slug: "free-fire"},
		{ID: 4, Name: "FIFA 24", Slug: "fifa-24"},
		{ID: 5, Name: "Call of Duty Mobile", Slug: "call-of-duty-mobile"},
		{ID: 6, Name: "Valorant", Slug: "valorant"},
		{ID: 7, Name: "Arena Breakout", Slug: "arena-breakout"},
		{ID: 8, Name: "Fortnite", Slug: "fortnite"},
	}
}
