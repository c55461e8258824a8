package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"topoedit/internal/codec"
	"topoedit/internal/domain"
	"topoedit/internal/loader"
	"topoedit/internal/scene"
	"topoedit/internal/topology"
)

// simulation is the outcome of a headless run
type simulation struct {
	editor  *topology.Editor
	surface *scene.Memory
	links   []domain.LinkID
	frames  int

	// level counts per link over all frames
	levels map[domain.LinkID]map[domain.TrafficLevel]int
}

func simulateCmd() *cobra.Command {
	var (
		frames int
		shape  string
		seed   uint64
		export string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Animate traffic headlessly and report link levels",
		Long: `Link the seed nodes, start one traffic animation per link and advance
the given number of frames without a canvas. Prints the share of frames each
link spent at each traffic level.

  topoedit simulate
  topoedit simulate --frames 600 --links mesh
  topoedit simulate --seed 42 --export yaml > topology.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			seeds, err := loader.LoadSeeds(cfg.Seeds.Path)
			if err != nil {
				return fmt.Errorf("load seeds: %w", err)
			}

			var rnd *rand.Rand
			if seed == 0 {
				rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
			} else {
				rnd = rand.New(rand.NewPCG(seed, seed))
			}

			opts := cfg.TopologyOptions()
			opts.Seeds = seeds
			sim, err := runSimulation(opts, rnd, shape, frames)
			if err != nil {
				return err
			}

			if export != "" {
				c, err := codec.Lookup(export)
				if err != nil {
					return err
				}
				return c.Export(sim.editor.Snapshot(), os.Stdout)
			}
			sim.print()
			return nil
		},
	}

	cmd.Flags().IntVarP(&frames, "frames", "n", 300, "number of frames to advance")
	cmd.Flags().StringVar(&shape, "links", "ring", "how seed nodes are linked: ring, star or mesh")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().StringVar(&export, "export", "", "write the final topology as json or yaml instead of the report")
	return cmd
}

// runSimulation builds the linked seed topology and advances it
func runSimulation(opts topology.Options, rnd topology.Rand, shape string, frames int) (*simulation, error) {
	if frames < 0 {
		return nil, fmt.Errorf("frames must be >= 0, got %d", frames)
	}

	surface := scene.NewMemory()
	editor := topology.New(surface, rnd, opts)

	snap := editor.Snapshot()
	ids := make([]domain.NodeID, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		ids = append(ids, n.ID)
	}

	pairs, err := linkPairs(ids, shape)
	if err != nil {
		return nil, err
	}

	sim := &simulation{
		editor:  editor,
		surface: surface,
		frames:  frames,
		levels:  make(map[domain.LinkID]map[domain.TrafficLevel]int),
	}
	for _, p := range pairs {
		id, err := editor.AddLink(p[0], p[1])
		if err != nil {
			return nil, err
		}
		sim.links = append(sim.links, id)
		sim.levels[id] = make(map[domain.TrafficLevel]int)
	}

	editor.StartAllTraffic()
	for range frames {
		editor.Frame()
		for _, id := range sim.links {
			link, err := editor.Link(id)
			if err != nil {
				return nil, err
			}
			sim.levels[id][link.Level]++
		}
	}
	return sim, nil
}

// linkPairs returns the endpoints to link for a shape
func linkPairs(ids []domain.NodeID, shape string) ([][2]domain.NodeID, error) {
	var pairs [][2]domain.NodeID
	switch shape {
	case "ring":
		if len(ids) < 2 {
			return nil, nil
		}
		for i := range ids {
			next := ids[(i+1)%len(ids)]
			if len(ids) == 2 && i == 1 {
				break
			}
			pairs = append(pairs, [2]domain.NodeID{ids[i], next})
		}
	case "star":
		for _, id := range ids[min(1, len(ids)):] {
			pairs = append(pairs, [2]domain.NodeID{ids[0], id})
		}
	case "mesh":
		for i := range ids {
			for j := i + 1; j < len(ids); j++ {
				pairs = append(pairs, [2]domain.NodeID{ids[i], ids[j]})
			}
		}
	default:
		return nil, fmt.Errorf("unknown link shape %q (want ring, star or mesh)", shape)
	}
	return pairs, nil
}

func (s *simulation) print() {
	header(fmt.Sprintf("simulate · %d frames", s.frames))

	graph := s.editor.Snapshot()
	names := make(map[domain.NodeID]string, len(graph.Nodes))
	for _, n := range graph.Nodes {
		names[n.ID] = n.Name
	}

	if len(graph.Links) == 0 {
		fmt.Println("  No links to animate")
		return
	}

	width := 0
	for _, l := range graph.Links {
		width = max(width, len(linkLabel(names, l)))
	}

	subtle.Printf("  %-4s  %-*s  %-6s  %5s  %5s  %5s\n", "ID", width, "Link", "Now", "Low", "Med", "High")
	subtle.Printf("  %s\n", strings.Repeat("─", width+40))
	for _, l := range graph.Links {
		counts := s.levels[l.ID]
		fmt.Printf("  %-4s  %-*s  %s  %5s  %5s  %5s\n",
			l.ID, width, linkLabel(names, l), levelString(l.Level),
			s.share(counts[domain.TrafficLow]),
			s.share(counts[domain.TrafficMedium]),
			s.share(counts[domain.TrafficHigh]))
	}

	fmt.Println()
	stats := s.editor.Stats()
	fmt.Printf("  %s nodes · %s links · %s animations · %d shapes · %d redraws\n",
		good.Sprint(stats.Nodes), good.Sprint(stats.Links), good.Sprint(stats.Animations),
		s.surface.Len(), s.surface.Redraws())
	if hot := s.hottest(); hot != "" {
		fmt.Printf("  Busiest link: %s\n", bad.Sprint(hot))
	}
}

func (s *simulation) share(n int) string {
	if s.frames == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", 100*float64(n)/float64(s.frames))
}

// hottest returns the link that spent the most frames at high traffic
func (s *simulation) hottest() domain.LinkID {
	var (
		best  domain.LinkID
		count int
	)
	for _, id := range s.links {
		if n := s.levels[id][domain.TrafficHigh]; n > count {
			best, count = id, n
		}
	}
	return best
}

func linkLabel(names map[domain.NodeID]string, l domain.GraphLink) string {
	return fmt.Sprintf("%s → %s", names[l.From], names[l.To])
}
