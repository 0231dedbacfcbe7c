package main

import (
	"context"
	"fmt"
)

// ModelCmd shows the configured model or lists what the endpoint
// offers.
type ModelCmd struct {
	List bool `short:"l" help:"List models the endpoint offers"`
}

func (m *ModelCmd) Run(cli *CLI) error {
	a, err := buildApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	if !m.List {
		fmt.Println(a.client.CurrentModelName())
		return nil
	}

	models, err := a.client.ListModels(context.Background())
	if err != nil {
		return err
	}
	current := a.client.CurrentModelName()
	for _, model := range models {
		marker := "  "
		if model == current {
			marker = "* "
		}
		fmt.Println(marker + model)
	}
	return nil
}
