package archive

import "viral_feed/internal/domain"

// SeedFeed is the demo feed shown before anything has been generated.
func SeedFeed() domain.Feed {
	return domain.Feed{
		Hero: domain.Post{
			ID:          "1",
			Title:       "Markets Rally As New Tech Regulation Stalls In Senate",
			Excerpt:     "Analysts predict a massive Q4 surge following the unexpected legislative gridlock. Here is what savvy investors are doing right now.",
			Category:    "Finance",
			Author:      "Sarah Jenkins",
			ReadTime:    "4 min read",
			Views:       "2.4M",
			PublishDate: "10 mins ago",
			Type:        domain.PostHero,
		},
		Trending: []domain.Post{
			trending("2", "Bitcoin Flash Crash: Is $30k The New Floor?", "890k", "Crypto"),
			trending("3", "The 5000-Mile Battery: EV Myth or Reality?", "650k", "Auto"),
			trending("4", "Remote Jobs Paying $150k+ You Can Start Today", "1.2M", "Careers"),
		},
		Latest: []domain.Post{
			latest("5", "This Nootropic Stack Is Taking Silicon Valley By Storm", "It is not coffee, and biohackers swear by it for 12-hour focus sessions.", "Health", "450k"),
			latest("6", "SpaceX Starship Update: Launch Window Confirmed", "New details on the Mars colonization timeline.", "Space", "320k"),
			latest("7", "Why Remote Work Is Here To Stay", "Stats show productivity is up, but managers are worried about control.", "Careers", "210k"),
			latest("8", "Best Budget Laptops for Students", "You don't need to spend $1000 to get a machine that can handle engineering loads.", "Tech", "180k"),
			latest("9", "Crypto Regulation: What You Need To Know", "The SEC is cracking down, here is what it means for your current holdings.", "Crypto", "300k"),
			latest("10", "Top 5 Travel Destinations for Digital Nomads", "Cheap living, fast wifi, and great community. The definitive list.", "Travel", "150k"),
			latest("11", "How To Start Dropshipping With $0", "A complete guide to starting e-commerce without holding any inventory.", "Finance", "410k"),
			latest("12", "The Rise of AI Art: Threat or Opportunity?", "Artists are fighting back, but the tech is improving faster than legislation.", "Tech", "290k"),
			latest("13", "Healthy Meal Prep Ideas for Busy Professionals", "Save time and money with these simple recipes that last all week.", "Health", "120k"),
			latest("14", "Understanding the New Tax Laws", "Don't get caught off guard this tax season. Key changes explained.", "Finance", "90k"),
			latest("15", "Beginner's Guide to Investing in Stocks", "Compound interest is your best friend. Start now with this simple strategy.", "Finance", "330k"),
			latest("16", "Review: The Best Noise Cancelling Headphones", "Silence the world with these top picks for every budget.", "Tech", "250k"),
		},
	}
}

// SeedPosts is the seed feed flattened in display order.
func SeedPosts() []domain.Post {
	return SeedFeed().Posts()
}

func trending(id, title, views, category string) domain.Post {
	return domain.Post{ID: id, Title: title, Views: views, Category: category, Type: domain.PostTrending}
}

func latest(id, title, excerpt, category, views string) domain.Post {
	return domain.Post{ID: id, Title: title, Excerpt: excerpt, Category: category, Views: views, Type: domain.PostStandard}
}
