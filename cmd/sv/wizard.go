package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/Dicklesworthstone/swipe_sheet/pkg/config"
	"github.com/Dicklesworthstone/swipe_sheet/pkg/model"
)

// askConfig walks the user through the sheet settings, starting from cfg.
func askConfig(cfg config.Config) (config.Config, error) {
	direction := cfg.Sheet.Direction
	points := formatPoints(cfg.Sheet.StickyPoints)
	forceBack := cfg.Sheet.ForceBackToZero
	entrance := cfg.Sheet.AnimateEntrance

	var options []huh.Option[string]
	for _, d := range []model.Direction{model.BottomToTop, model.TopToBottom, model.LeftToRight, model.RightToLeft} {
		options = append(options, huh.NewOption(strings.ReplaceAll(d.String(), "_", " "), d.String()))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which way does the sheet open?").
				Options(options...).
				Value(&direction),
			huh.NewInput().
				Title("Sticky points").
				Description("Reveal fractions between 0 and 1, comma separated").
				Value(&points).
				Validate(func(s string) error {
					_, err := config.ParsePoints(s)
					return err
				}),
			huh.NewConfirm().
				Title("Flicking back returns to the first stop?").
				Value(&forceBack),
			huh.NewConfirm().
				Title("Slide in on start?").
				Value(&entrance),
		),
	)
	if err := form.Run(); err != nil {
		return cfg, fmt.Errorf("config wizard: %w", err)
	}

	pts, err := config.ParsePoints(points)
	if err != nil {
		return cfg, err
	}
	cfg.Sheet.Direction = direction
	cfg.Sheet.StickyPoints = pts
	cfg.Sheet.ForceBackToZero = forceBack
	cfg.Sheet.AnimateEntrance = entrance
	return cfg, nil
}

func formatPoints(pts []float64) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%g", p)
	}
	return strings.Join(parts, ", ")
}
