package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}

		collection.Fields.Add(
			&core.TextField{Name: "username"},
			&core.SelectField{
				Name:      "role",
				MaxSelect: 1,
				Values:    []string{"user", "admin"},
			},
			&core.TextField{Name: "roll_number"},
		)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}

		collection.Fields.RemoveByName("username")
		collection.Fields.RemoveByName("role")
		collection.Fields.RemoveByName("roll_number")

		return app.Save(collection)
	})
}
