package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"interiorai/internal/design"
	"interiorai/internal/domain"
)

func (c *cli) generateCmd() *cobra.Command {
	var (
		imagePath string
		style     string
		room      string
		scenario  string
		custom    string
		model     string
		userID    string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the redesign pipeline once and print the result as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			img := ""
			if imagePath != "" {
				uri, err := dataURI(imagePath)
				if err != nil {
					return err
				}
				img = uri
			}

			stack, err := design.Wire(cmd.Context(), design.WireOptions{Config: c.cfg, Logger: &c.logger})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if c.cfg.GenerationTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, c.cfg.GenerationTimeout)
				defer cancel()
			}
			res := stack.Service.Generate(ctx, domain.GenerationRequest{
				UserID:       userID,
				Image:        img,
				Style:        domain.ParseStyle(style),
				RoomType:     domain.ParseRoomType(room),
				Scenario:     domain.ParseScenario(scenario),
				CustomPrompt: custom,
				Model:        domain.ParseModelChoice(model),
			})

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
			if !res.Success {
				return errors.New("generation failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&imagePath, "image", "", "path to the room photo")
	cmd.Flags().StringVar(&style, "style", string(domain.StyleModern), "design style")
	cmd.Flags().StringVar(&room, "room", string(domain.RoomLivingRoom), "room type")
	cmd.Flags().StringVar(&scenario, "scenario", string(domain.ScenarioLiving), "usage scenario")
	cmd.Flags().StringVar(&custom, "prompt", "", "free-form request")
	cmd.Flags().StringVar(&model, "model", string(domain.ModelFlux), "generation model")
	cmd.Flags().StringVar(&userID, "user", "", "user id (a guest id is generated when empty)")
	return cmd
}

// dataURI reads path and encodes it as a base64 data URI.
func dataURI(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = http.DetectContentType(raw)
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
