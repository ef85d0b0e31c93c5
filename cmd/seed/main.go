package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"questline/internal/config"
	"questline/internal/model"
	"questline/internal/repository"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	clusterRepo := repository.NewClusterRepo(client.Database(cfg.MongoDB))

	clusters := []*model.Cluster{
		classicCluster(),
		pagedCluster(),
	}
	for _, cluster := range clusters {
		if err := clusterRepo.Upsert(ctx, cluster); err != nil {
			log.Fatalf("Failed to seed cluster %q: %v", cluster.Key, err)
		}
		fmt.Printf("Seeded cluster %q (%s)\n", cluster.Key, cluster.Mode())
	}
}

// classicCluster is a branching per-question flow: the first answer
// steers the rest of the walk.
func classicCluster() *model.Cluster {
	return &model.Cluster{
		Key:                "device_coverage",
		Title:              "Device Coverage Check",
		QuestionnaireTitle: "Your devices",
		Questionnaire: []model.Question{
			{
				ID:   "q_has_insurance",
				Text: "Do you currently insure any of your devices?",
				Type: model.QuestionTypeSingleChoice,
				Options: []model.QuestionOption{
					{ID: "yes", Label: "Yes"},
					{ID: "no", Label: "No"},
				},
				Next: &model.NextSpec{Mapping: map[string]string{
					"yes": "q_satisfaction",
					"no":  "q_devices",
				}},
			},
			{
				ID:    "q_satisfaction",
				Text:  "How satisfied are you with your current coverage?",
				Type:  model.QuestionTypeRating,
				Scale: &model.Scale{Min: 1, Max: 5},
				Next:  &model.NextSpec{Literal: "q_devices"},
			},
			{
				ID:   "q_devices",
				Text: "Which devices do you own?",
				Type: model.QuestionTypeMultiChoice,
				Options: []model.QuestionOption{
					{ID: "smartphone", Label: "Smartphone"},
					{ID: "laptop", Label: "Laptop"},
					{ID: "tablet", Label: "Tablet"},
					{ID: "wearable", Label: "Smartwatch / wearable"},
				},
				Next: &model.NextSpec{Literal: "q_concerns"},
			},
			{
				ID:   "q_concerns",
				Text: "What worries you most about damage to your devices?",
				Type: model.QuestionTypeOpenText,
			},
		},
	}
}

// pagedCluster routes past the follow-up page when the rating is low.
func pagedCluster() *model.Cluster {
	return &model.Cluster{
		Key:   "service_feedback",
		Title: "Service Feedback",
		Pages: []model.Page{
			{
				ID:           "page_rating",
				Title:        "Your experience",
				Questions: []model.Question{
					{
						ID:       "q_overall",
						Text:     "How would you rate our service overall?",
						Type:     model.QuestionTypeRating,
						Required: true,
						Scale:    &model.Scale{Min: 1, Max: 5},
					},
				},
				ShowContinue: true,
				ConditionalRouting: &model.Routing{
					Rules: []model.RoutingRule{
						{
							Condition: model.Condition{
								QuestionID:   "q_overall",
								OperatorType: model.OpGreaterEqual,
								Value:        "4",
							},
							NextPage: "page_highlights",
							Priority: 1,
						},
					},
					DefaultAction: "page_improvements",
				},
			},
			{
				ID:    "page_improvements",
				Title: "What should we fix",
				Questions: []model.Question{
					{
						ID:       "q_improve",
						Text:     "What should we improve first?",
						Type:     model.QuestionTypeOpenText,
						Required: true,
					},
				},
				ShowContinue: true,
			},
			{
				ID:    "page_highlights",
				Title: "What stood out",
				Questions: []model.Question{
					{
						ID:       "q_highlight",
						Text:     "What did you like the most?",
						Type:     model.QuestionTypeOpenText,
						Required: true,
					},
					{
						ID:   "q_recommend",
						Text: "Would you recommend us?",
						Type: model.QuestionTypeSingleChoice,
						Options: []model.QuestionOption{
							{ID: "yes", Label: "Yes"},
							{ID: "maybe", Label: "Maybe"},
							{ID: "no", Label: "No"},
						},
					},
				},
				ShowContinue: true,
				IsLast:       true,
			},
		},
	}
}
