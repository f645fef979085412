package product

// Seed returns the built-in catalog used when the remote store is unreachable
// and for the admin restore-defaults operation. Callers own the returned slice.
func Seed() []Product {
	return []Product{
		{
			ID:          "ai-bundle",
			Name:        "AI Creation Masterclass",
			Price:       "₦15,000",
			Image:       "https://picsum.photos/id/3/600/400",
			Description: "The complete step-by-step guide to creating, automating, and selling with AI. Includes Video + PDF.",
			Badge:       badge("Best Seller"),
		},
		{
			ID:          "prompt-guide",
			Name:        "Prompt Engineering Bible",
			Price:       "₦5,000",
			Image:       "https://picsum.photos/id/20/600/400",
			Description: "Master ChatGPT & Midjourney with 1000+ copy-paste prompts for marketing and coding.",
		},
		{
			ID:          "video-mastery",
			Name:        "AI Video Production",
			Price:       "₦8,500",
			Image:       "https://picsum.photos/id/26/600/400",
			Description: "Learn to create viral faceless YouTube videos using tools like HeyGen and RunwayML.",
			Badge:       badge("Trending"),
		},
		{
			ID:          "mentorship",
			Name:        "1-on-1 Mentorship",
			Price:       "₦25,000",
			Image:       "https://picsum.photos/id/60/600/400",
			Description: "A 60-minute private strategy call to help you launch your own digital product business.",
			Badge:       badge("Limited Slots"),
		},
	}
}

// SeedForInsert strips the fixed ids from the seed set so the store assigns
// fresh identifiers on restore.
func SeedForInsert() []Product {
	seed := Seed()

	for i := range seed {
		seed[i].ID = ""
	}

	return seed
}

func badge(s string) *string {
	return &s
}
