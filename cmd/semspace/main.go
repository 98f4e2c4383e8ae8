package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"semspace/internal/config"
	"semspace/internal/domain"
	"semspace/internal/embedding"
	"semspace/internal/render"
	"semspace/internal/service"
	"semspace/internal/tui"
	"semspace/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, reqPath, importName string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/semspace/config.yaml if not provided)")
	flag.StringVar(&reqPath, "request", "", "Render the YAML request in this file to stdout instead of starting the TUI")
	flag.StringVar(&importName, "import", "", "Import the word vector file of this qdrant space into its collection and exit")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	sources := cfg.Sources()
	if importName != "" {
		if err := importSpace(importName, sources); err != nil {
			log.Fatalf("import failed: %v", err)
		}
		return
	}

	cache := embedding.NewCache(embedding.NewLoader(sources))
	svc := service.NewVisualizer(cache, cfg.SpaceNames())
	opts := render.Options{Width: cfg.Render.Width, Height: cfg.Render.Height}

	if reqPath != "" {
		if err := renderRequest(svc, reqPath, opts); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	m := tui.New(svc, cfg.Defaults, opts)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}

func renderRequest(svc *service.Visualizer, path string, opts render.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var req domain.Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse request: %w", err)
	}
	req.ExtraWord = strings.TrimSpace(req.ExtraWord)
	if req.TargetGroup == "" {
		req.TargetGroup = domain.TargetAll
	}
	results, err := svc.Visualize(req)
	if err != nil {
		return err
	}
	for _, res := range results {
		out, err := render.Render(res, opts)
		if err != nil {
			return err
		}
		fmt.Println(out)
	}
	return nil
}

func importSpace(name string, sources map[string]embedding.Source) error {
	src, ok := sources[name]
	if !ok {
		return fmt.Errorf("unknown space %q", name)
	}
	if src.Type != embedding.SourceQdrant {
		return fmt.Errorf("space %q is not a qdrant space", name)
	}
	if src.Path == "" {
		return fmt.Errorf("space %q has no path to import from", name)
	}
	vectors, err := embedding.LoadFile(name, src.Path, src.Format, src.Limit)
	if err != nil {
		return err
	}
	n, err := qdrant.Import(src.Qdrant, vectors, 256)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d words into %s\n", n, src.Qdrant.Collection)
	return nil
}
