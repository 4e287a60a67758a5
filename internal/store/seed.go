package store

import "time"

// seed loads the development dataset the mock backend ships with: four
// users, two service posts, four transactions covering every status, the
// discovery categories, two chat threads and the dashboard block.
func (s *Store) seed() {
	jane := &User{
		ID: "1", Name: "Jane Doe", Email: "client@test.com", Secret: "password",
		AvatarURL: "https://picsum.photos/seed/jane/100/100", Handle: "janedoe",
		Roles: []Role{RoleClient}, ActiveRole: RoleClient, Reputation: 85,
	}
	john := &User{
		ID: "2", Name: "John Smith", Email: "provider@test.com", Secret: "password",
		AvatarURL: "https://picsum.photos/seed/john/100/100", Handle: "johnsmith",
		Roles: []Role{RoleProvider, RoleClient}, ActiveRole: RoleProvider, Reputation: 92,
	}
	alice := &User{
		ID: "3", Name: "Alice Johnson", Email: "alice@test.com", Secret: "password",
		AvatarURL: "https://picsum.photos/seed/alice/100/100", Handle: "alicej",
		Roles: []Role{RoleProvider}, ActiveRole: RoleProvider, Reputation: 78,
	}
	bob := &User{
		ID: "4", Name: "Bob Brown", Email: "bob@test.com", Secret: "password",
		AvatarURL: "https://picsum.photos/seed/bob/100/100", Handle: "bobb",
		Roles: []Role{RoleClient}, ActiveRole: RoleClient, Reputation: 65,
	}
	for _, u := range []*User{jane, john, alice, bob} {
		s.users[u.ID] = u
	}

	s.posts = []*ServicePost{
		{
			ID:          "sp1",
			Provider:    *cloneUserView(john),
			ServiceName: "Custom Bookshelf Crafting",
			Description: "Hand-crafted, solid wood bookshelves tailored to your space. Multiple finishes available.",
			ImageURL:    "https://picsum.photos/seed/bookshelf/600/400",
			Category:    "Home Services",
			Reviews: []Review{
				{ID: "r1", Author: *cloneUserView(jane), Rating: 5, Comment: "Amazing quality and fast service!", Timestamp: "2h ago"},
			},
			Comments: []Comment{
				{ID: "c1", Author: *cloneUserView(bob), Text: "This looks great! Do you do custom sizes?", Timestamp: "1h ago"},
			},
			AvgRating: 5.0,
		},
		{
			ID:          "sp2",
			Provider:    *cloneUserView(alice),
			ServiceName: "Professional Logo Design",
			Description: "Get a unique and memorable logo for your brand. Includes 3 revision rounds.",
			ImageURL:    "https://picsum.photos/seed/logo/600/400",
			Category:    "Creative",
			Reviews: []Review{
				{ID: "r2", Author: *cloneUserView(bob), Rating: 4, Comment: "Very professional, would recommend.", Timestamp: "1d ago"},
			},
			Comments: []Comment{
				{ID: "c2", Author: *cloneUserView(jane), Text: "What are the material options?", Timestamp: "3h ago"},
			},
			AvgRating: 4.0,
		},
	}

	ready12h := time.Now().Add(-12 * time.Hour)
	ready90m := time.Now().Add(-90 * time.Minute)
	s.transactions = []*Transaction{
		{
			ID: "t1", ServiceName: "PC Repair", Provider: *cloneUserView(john), Client: *cloneUserView(jane),
			Date: "2023-10-26", Status: StatusReadyForPickup, QRCodeID: "QR123",
			PickupDeadlineHours: 48, ReadyTimestamp: &ready12h,
		},
		{
			ID: "t2", ServiceName: "Garden Maintenance", Provider: *cloneUserView(alice), Client: *cloneUserView(jane),
			Date: "2023-10-25", Status: StatusInProgress, QRCodeID: "QR456",
		},
		{
			ID: "t3", ServiceName: "Website Consultation", Provider: *cloneUserView(alice), Client: *cloneUserView(bob),
			Date: "2023-10-22", Status: StatusCompleted, QRCodeID: "QR789",
		},
		{
			ID: "t4", ServiceName: "Custom Painting", Provider: *cloneUserView(john), Client: *cloneUserView(bob),
			Date: "2023-10-28", Status: StatusReadyForPickup, QRCodeID: "QR101",
			PickupDeadlineHours: 2, ReadyTimestamp: &ready90m,
			DeliveryRequested: true, DeliveryAddress: "123 Main St, Anytown",
			DeliveryPhoneNumber: "555-1234", EstimatedDeliveryTime: "2-3 hours",
		},
	}

	s.categories = []ServiceCategory{
		{ID: "sc1", Name: "Home Services", Icon: "home"},
		{ID: "sc2", Name: "Automotive", Icon: "settings"},
		{ID: "sc3", Name: "Creative & Design", Icon: "user"},
		{ID: "sc4", Name: "Personal Care", Icon: "star"},
		{ID: "sc5", Name: "Tech & Electronics", Icon: "chart"},
		{ID: "sc6", Name: "Events", Icon: "bell"},
	}

	s.chats = []ChatThread{
		{
			ID: "chat1", Participant: *cloneUserView(john),
			LastMessageText: "Yes, it will be ready by 5 PM today.", LastMessageTimestamp: "15m ago",
		},
		{
			ID: "chat2", Participant: *cloneUserView(alice),
			LastMessageText: "Just confirming the details we discussed.", LastMessageTimestamp: "1h ago",
		},
	}

	s.stats = DashboardStats{
		ProfileViews:   1254,
		LikesReceived:  632,
		EngagementRate: 12.5,
		Followers:      341,
		Activity: []StatPoint{
			{Name: "Mon", Value: 20}, {Name: "Tue", Value: 45}, {Name: "Wed", Value: 30},
			{Name: "Thu", Value: 60}, {Name: "Fri", Value: 80}, {Name: "Sat", Value: 70},
			{Name: "Sun", Value: 95},
		},
		Performance: []StatPoint{
			{Name: "Jan", Value: 240}, {Name: "Feb", Value: 300}, {Name: "Mar", Value: 200},
			{Name: "Apr", Value: 278}, {Name: "May", Value: 189}, {Name: "Jun", Value: 239},
		},
	}
}
