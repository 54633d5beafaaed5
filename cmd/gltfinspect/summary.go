package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/loader"
)

// Summary is the printable overview of one asset.
type Summary struct {
	Path       string `json:"path" yaml:"path"`
	Name       string `json:"name" yaml:"name"`
	ID         string `json:"id" yaml:"id"`
	Version    string `json:"version" yaml:"version"`
	Generator  string `json:"generator,omitempty" yaml:"generator,omitempty"`
	Copyright  string `json:"copyright,omitempty" yaml:"copyright,omitempty"`
	MinVersion string `json:"minVersion,omitempty" yaml:"minVersion,omitempty"`

	// BinaryChunk is the size of the GLB BIN chunk, -1 when there is none.
	BinaryChunk int `json:"binaryChunk" yaml:"binaryChunk"`

	Counts       Counts         `json:"counts" yaml:"counts"`
	DefaultScene *int           `json:"defaultScene,omitempty" yaml:"defaultScene,omitempty"`
	Scenes       []SceneSummary `json:"scenes,omitempty" yaml:"scenes,omitempty"`

	ExtensionsUsed     []string `json:"extensionsUsed,omitempty" yaml:"extensionsUsed,omitempty"`
	ExtensionsRequired []string `json:"extensionsRequired,omitempty" yaml:"extensionsRequired,omitempty"`
}

// Counts holds the length of every top level array.
type Counts struct {
	Accessors   int `json:"accessors" yaml:"accessors"`
	Animations  int `json:"animations" yaml:"animations"`
	Buffers     int `json:"buffers" yaml:"buffers"`
	BufferViews int `json:"bufferViews" yaml:"bufferViews"`
	Cameras     int `json:"cameras" yaml:"cameras"`
	Images      int `json:"images" yaml:"images"`
	Materials   int `json:"materials" yaml:"materials"`
	Meshes      int `json:"meshes" yaml:"meshes"`
	Nodes       int `json:"nodes" yaml:"nodes"`
	Samplers    int `json:"samplers" yaml:"samplers"`
	Scenes      int `json:"scenes" yaml:"scenes"`
	Skins       int `json:"skins" yaml:"skins"`
	Textures    int `json:"textures" yaml:"textures"`
}

// SceneSummary lists the root nodes of a scene.
type SceneSummary struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Roots []int  `json:"roots" yaml:"roots"`
}

// Summarize builds the Summary of a loaded asset.
//
// Parameters:
//   - path: the path or cache key the asset was loaded from
//   - a: the asset
//
// Returns:
//   - Summary: the overview
func Summarize(path string, a *loader.Asset) Summary {
	m := a.Model
	s := Summary{
		Path:        path,
		Name:        a.Name,
		ID:          a.ID.String(),
		Version:     m.Asset.Version,
		Generator:   common.ValueOr(m.Asset.Generator, ""),
		Copyright:   common.ValueOr(m.Asset.Copyright, ""),
		MinVersion:  common.ValueOr(m.Asset.MinVersion, ""),
		BinaryChunk: -1,
		Counts: Counts{
			Accessors:   len(m.Accessors),
			Animations:  len(m.Animations),
			Buffers:     len(m.Buffers),
			BufferViews: len(m.BufferViews),
			Cameras:     len(m.Cameras),
			Images:      len(m.Images),
			Materials:   len(m.Materials),
			Meshes:      len(m.Meshes),
			Nodes:       len(m.Nodes),
			Samplers:    len(m.Samplers),
			Scenes:      len(m.Scenes),
			Skins:       len(m.Skins),
			Textures:    len(m.Textures),
		},
		ExtensionsUsed:     m.ExtensionsUsed,
		ExtensionsRequired: m.ExtensionsRequired,
	}
	if a.Container.HasBinary() {
		s.BinaryChunk = len(a.Container.Binary)
	}
	if m.Scene != nil {
		idx := m.Scene.Index()
		s.DefaultScene = &idx
	}
	for _, scene := range m.Scenes {
		roots := make([]int, len(scene.Nodes))
		for i, n := range scene.Nodes {
			roots[i] = n.Index()
		}
		s.Scenes = append(s.Scenes, SceneSummary{Name: common.ValueOr(scene.Name, ""), Roots: roots})
	}
	return s
}

// WriteSummaries prints summaries in the given output format.
//
// Parameters:
//   - w: the destination
//   - format: FormatText, FormatJSON or FormatYAML
//   - summaries: the summaries to print
//
// Returns:
//   - error: error if encoding or writing fails
func WriteSummaries(w io.Writer, format string, summaries []Summary) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(summaries); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		for i, s := range summaries {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := writeText(w, s); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, format)
	}
}

func writeText(w io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", s.Path, s.ID)
	fmt.Fprintf(tw, "  version\t%s\n", s.Version)
	if s.Generator != "" {
		fmt.Fprintf(tw, "  generator\t%s\n", s.Generator)
	}
	if s.Copyright != "" {
		fmt.Fprintf(tw, "  copyright\t%s\n", s.Copyright)
	}
	if s.BinaryChunk >= 0 {
		fmt.Fprintf(tw, "  binary chunk\t%d bytes\n", s.BinaryChunk)
	}

	c := s.Counts
	fmt.Fprintf(tw, "  counts\tbuffers=%d bufferViews=%d accessors=%d meshes=%d materials=%d textures=%d images=%d samplers=%d\n",
		c.Buffers, c.BufferViews, c.Accessors, c.Meshes, c.Materials, c.Textures, c.Images, c.Samplers)
	fmt.Fprintf(tw, "  \tnodes=%d scenes=%d skins=%d cameras=%d animations=%d\n",
		c.Nodes, c.Scenes, c.Skins, c.Cameras, c.Animations)

	for i, scene := range s.Scenes {
		marker := ""
		if s.DefaultScene != nil && *s.DefaultScene == i {
			marker = " (default)"
		}
		fmt.Fprintf(tw, "  scene %d%s\t%s roots=%v\n", i, marker, scene.Name, scene.Roots)
	}
	if len(s.ExtensionsUsed) > 0 {
		fmt.Fprintf(tw, "  extensions used\t%s\n", strings.Join(s.ExtensionsUsed, ", "))
	}
	if len(s.ExtensionsRequired) > 0 {
		fmt.Fprintf(tw, "  extensions required\t%s\n", strings.Join(s.ExtensionsRequired, ", "))
	}
	return tw.Flush()
}
