package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		users, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("events")
		collection.Fields.Add(
			&core.TextField{Name: "title", Required: true, Max: 200},
			&core.DateField{Name: "date", Required: true},
			&core.TextField{Name: "time"},
			&core.TextField{Name: "location", Required: true},
			&core.TextField{Name: "description", Max: 5000},
			&core.SelectField{
				Name:      "category",
				MaxSelect: 1,
				Values:    []string{"academic", "cultural", "sports", "workshop", "other"},
			},
			&core.NumberField{Name: "price", Min: types.Pointer(0.0)},
			&core.NumberField{
				Name:     "expected_attendees",
				Required: true,
				OnlyInt:  true,
				Min:      types.Pointer(1.0),
			},
			&core.NumberField{Name: "attendees", OnlyInt: true, Min: types.Pointer(0.0)},
			&core.FileField{
				Name:      "image",
				MaxSelect: 1,
				MaxSize:   5242880,
				MimeTypes: []string{"image/jpeg", "image/png", "image/webp"},
			},
			&core.RelationField{
				Name:         "organizer",
				Required:     true,
				MaxSelect:    1,
				CollectionId: users.Id,
			},
			&core.SelectField{
				Name:      "status",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"pending", "approved", "rejected"},
			},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		collection.AddIndex("idx_events_organizer", false, "organizer", "")
		collection.AddIndex("idx_events_status_date", false, "status, date", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
