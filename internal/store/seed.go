package store

import "github.com/VishiATChoudhary/TUMai-LaGent/internal/models"

// SeedMessages returns the fixture worklist the dashboard ships with.
// Feed-derived messages use a disjoint id space (categorizer record ids),
// so these small numeric ids never collide with merged items.
func SeedMessages() []models.Message {
	return []models.Message{
		{
			ID:        "1",
			Tenant:    models.Tenant{Name: "Sophie Chen", Initials: "SC"},
			Property:  "Sunset Apartments, #302",
			Category:  "Maintenance",
			Body:      "The kitchen sink is clogged and water won't drain properly. I've tried using drain cleaner but it didn't help. Can someone come take a look?",
			Timestamp: "10 minutes ago",
			Status:    models.StatusNew,
			Priority:  models.PriorityMedium,
		},
		{
			ID:        "2",
			Tenant:    models.Tenant{Name: "James Wilson", Initials: "JW", Avatar: "https://i.pravatar.cc/150?img=2"},
			Property:  "Riverside Complex, #201",
			Category:  "Noise Complaint",
			Body:      "The upstairs neighbors are having a loud party after 11 PM again. This is the third time this week and I have to work early in the morning.",
			Timestamp: "2 hours ago",
			Status:    models.StatusAutoReplied,
			Priority:  models.PriorityHigh,
		},
		{
			ID:        "3",
			Tenant:    models.Tenant{Name: "Maria Rodriguez", Initials: "MR", Avatar: "https://i.pravatar.cc/150?img=3"},
			Property:  "Park View Residences, #105",
			Category:  "Rent",
			Body:      "I'll be making my rent payment by the end of this week. I got paid late this month but wanted to let you know in advance.",
			Timestamp: "5 hours ago",
			Status:    models.StatusNeedsReview,
			Priority:  models.PriorityLow,
		},
		{
			ID:        "4",
			Tenant:    models.Tenant{Name: "Thomas Baker", Initials: "TB"},
			Property:  "Woodland Heights, #417",
			Category:  "Maintenance",
			Body:      "The heating system doesn't seem to be working properly. The apartment gets very cold at night despite setting the thermostat to 72°F.",
			Timestamp: "1 day ago",
			Status:    models.StatusDone,
			Priority:  models.PriorityMedium,
		},
		{
			ID:        "5",
			Tenant:    models.Tenant{Name: "Aisha Johnson", Initials: "AJ", Avatar: "https://i.pravatar.cc/150?img=5"},
			Property:  "Metro Lofts, #506",
			Category:  "General",
			Body:      "I'm planning to renew my lease that expires next month. Could you send me the new contract when it's ready?",
			Timestamp: "1 day ago",
			Status:    models.StatusNew,
			Priority:  models.PriorityLow,
		},
		{
			ID:        "6",
			Tenant:    models.Tenant{Name: "David Kim", Initials: "DK", Avatar: "https://i.pravatar.cc/150?img=7"},
			Property:  "Lakeside Villas, #203",
			Category:  "Maintenance",
			Body:      "There's a water leak coming from the ceiling in the bathroom. It's dripping slowly but continuously.",
			Timestamp: "2 days ago",
			Status:    models.StatusNeedsReview,
			Priority:  models.PriorityHigh,
		},
	}
}
