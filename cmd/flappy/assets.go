package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/assets"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

var flagShowTexture string

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List and check the texture catalog",
	Long: `List every texture in the catalog and check that the scene's
textures are all present. Exits non-zero when one is missing.

Examples:
  flappy assets
  flappy assets --assets ./my-textures.yaml
  flappy assets --show flappy1.png`,
	Args: cobra.NoArgs,
	RunE: runAssets,
}

func init() {
	assetsCmd.Flags().StringVar(&flagShowTexture, "show", "", "Print one texture")
}

func runAssets(_ *cobra.Command, _ []string) error {
	var (
		catalog *assets.Catalog
		err     error
	)
	if flagAssets != "" {
		catalog, err = assets.LoadFile(flagAssets)
	} else {
		catalog, err = assets.Default()
	}
	if err != nil {
		return err
	}

	if flagShowTexture != "" {
		tex, err := catalog.Texture(flagShowTexture)
		if err != nil {
			return err
		}
		screen := core.NewScreen(tex.Width, tex.Height)
		for y := 0; y < tex.Height; y++ {
			for x := 0; x < tex.Width; x++ {
				if r, ok := tex.At(x, y); ok {
					screen.Set(x, y, r)
				}
			}
		}
		fmt.Println(screen.String())
		return nil
	}

	fmt.Printf("  %-14s  %-7s  %-14s  %s\n", "Name", "Size", "Color", "Used")
	fmt.Printf("  %-14s  %-7s  %-14s  %s\n", "----", "----", "-----", "----")
	for _, name := range catalog.Names() {
		tex, _ := catalog.Texture(name)
		used := ""
		if slices.Contains(flappy.RequiredTextures, name) {
			used = "yes"
		}
		fmt.Printf("  %-14s  %-7s  %-14s  %s\n", name, fmt.Sprintf("%dx%d", tex.Width, tex.Height), tex.Color, used)
	}
	fmt.Println()

	if err := catalog.Require(flappy.RequiredTextures...); err != nil {
		return err
	}
	fmt.Println("All scene textures present.")
	return nil
}
