// assettool inspects intro assets: packed models, textures and the
// configured asset list.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/amrayach/house-of-letters/internal/assets"
	"github.com/amrayach/house-of-letters/internal/config"
	"github.com/amrayach/house-of-letters/internal/engine/material"
	"github.com/amrayach/house-of-letters/internal/engine/model"
	"github.com/amrayach/house-of-letters/internal/engine/scene"
	"github.com/amrayach/house-of-letters/internal/engine/texture"
	"github.com/amrayach/house-of-letters/internal/intro"
	"github.com/amrayach/house-of-letters/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "texture", "tex":
		err = cmdTexture(args)
	case "check":
		err = cmdCheck(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`assettool - House of Letters asset utility

Usage:
  assettool <command> [options]

Commands:
  info <model.json>              Decode a packed model and show its geometry
  texture <image> [-max N]       Decode a texture and show its fitted size
  check [-config file]           Load every configured asset and report

Examples:
  assettool info assets/models/house.json
  assettool texture assets/models/paper.tga -max 1024
  assettool check -config config.yaml`)
}

func cmdInfo(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: assettool info <model.json>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	packed, err := formats.ParsePackedModel(data)
	if err != nil {
		return err
	}

	geom, decodeErr := formats.DecodeGeometry(packed)
	mesh := model.BuildMesh(geom)

	fmt.Printf("Model:     %s\n", args[0])
	fmt.Printf("Vertices:  %d (pool)\n", packed.VertexCount())
	fmt.Printf("UV layers: %d\n", packed.UVLayers())
	if decodeErr != nil {
		fmt.Printf("Warning:   %v\n", decodeErr)
	}
	if mesh == nil {
		return assets.ErrEmptyGeometry
	}

	size := mesh.Bounds.Size()
	center := mesh.Bounds.Center()
	fmt.Printf("Triangles: %d\n", mesh.TriangleCount())
	fmt.Printf("Normals:   %s\n", map[bool]string{true: "smoothed", false: "decoded"}[mesh.SmoothedNormals])
	fmt.Printf("Bounds:    %.2f x %.2f x %.2f, center (%.2f, %.2f, %.2f)\n",
		size.X, size.Y, size.Z, center.X, center.Y, center.Z)
	fmt.Println()

	set := material.Resolve(packed.Materials, geom.Groups)
	set.Bind(mesh)
	fmt.Println("Draw ranges:")
	for _, r := range mesh.Ranges {
		m := set.Materials[r.MaterialIndex]
		fmt.Printf("  %-20s %-7s %6d triangles", m.Name, m.Class, r.Count/3)
		if m.MapDiffuse != "" {
			fmt.Printf("  map=%s", m.MapDiffuse)
		}
		fmt.Println()
	}
	return nil
}

func cmdTexture(args []string) error {
	fs := flag.NewFlagSet("texture", flag.ExitOnError)
	maxSize := fs.Int("max", 2048, "Largest side after fitting (0 = no limit)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: assettool texture <image> [-max N]")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	img, err := texture.Decode(fs.Arg(0), data)
	if err != nil {
		return err
	}
	fitted := texture.Fit(img, *maxSize)

	fmt.Printf("Texture: %s\n", fs.Arg(0))
	fmt.Printf("Source:  %dx%d\n", img.Bounds().Dx(), img.Bounds().Dy())
	fmt.Printf("Fitted:  %dx%d\n", fitted.Bounds().Dx(), fitted.Bounds().Dy())
	return nil
}

func cmdCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	path := fs.String("config", "", "Config file (defaults when empty)")
	timeout := fs.Duration("timeout", time.Minute, "Give up after this long")
	fs.Parse(args)

	cfg := config.Default()
	if *path != "" {
		var err error
		if cfg, err = config.LoadFile(*path); err != nil {
			return err
		}
	}

	list, err := intro.Assets(cfg.Assets)
	if err != nil {
		return err
	}

	src := assets.NewDirSource(cfg.Assets.Root)
	defer src.Close()
	loader := assets.NewLoader(src, assets.WithMaxTextureSize(cfg.Assets.MaxTextureSize))
	sc := scene.New()
	defer sc.Release()

	pipeline, err := assets.NewPipeline(list, loader, sc)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	pipeline.Start(ctx)
	if err := pipeline.Wait(ctx); err != nil {
		pipeline.Close()
		return err
	}

	results := pipeline.Results()
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Asset.Primary && !results[j].Asset.Primary
	})

	origin := pipeline.Origin()
	fmt.Printf("Root:   %s\n", cfg.Assets.Root)
	fmt.Printf("Origin: (%.2f, %.2f, %.2f)\n", origin.X, origin.Y, origin.Z)
	fmt.Println()
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		triangles := 0
		if obj := sc.Find(r.Asset.Name); obj != nil && obj.Mesh != nil {
			triangles = obj.Mesh.TriangleCount()
		}
		fmt.Printf("  %-10s %-8s %6d tris %8s  %s\n",
			r.Asset.Name, r.Asset.Mode, triangles, r.Duration.Round(time.Millisecond), status)
	}

	counter := pipeline.Counter()
	fmt.Printf("\n%d/%d settled, %d objects, %d triangles\n",
		counter.Loaded, counter.Total, sc.Len(), sc.TriangleCount())
	return pipeline.Err()
}
