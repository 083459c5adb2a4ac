// Command meshfix removes self-intersections from STL and OBJ meshes.
//
//	meshfix [flags] in.stl out.stl
//
// The exit status is 2 when self-intersections remain after repair.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/soypat/meshfix"
	"github.com/soypat/meshfix/render"
	"github.com/soypat/meshfix/repair"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	previewWidth  = 480
	previewHeight = 360
)

func main() {
	var (
		local   = flag.Bool("local", false, "repair each region separately, with smoothing")
		rings   = flag.Int("rings", 0, "extra face rings added around every region")
		steps   = flag.Int("steps", 0, "maximum repair steps (0 uses the mode default)")
		angle   = flag.Float64("angle", 60, "dihedral angle in degrees below which edges are sharp")
		eps     = flag.Float64("eps", 0, "envelope radius patches must stay within (0 disables)")
		genus   = flag.Bool("genus", true, "reject repairs that change the mesh topology")
		weld    = flag.Float64("weld", 0, "vertex welding tolerance (0 infers it from the shortest edge)")
		verbose = flag.Bool("v", false, "log repair progress")
		preview = flag.String("png", "", "write a before/after preview to this PNG file")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] in.stl out.stl\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	log.SetFlags(0)
	input, output := flag.Arg(0), flag.Arg(1)

	tris, err := load(input)
	if err != nil {
		log.Fatal(err)
	}
	m, err := render.ToMesh(tris, *weld)
	if err != nil {
		log.Fatalf("building mesh from %s: %s", input, err)
	}
	opts := []repair.Option{
		repair.WithLocal(*local),
		repair.WithExpansionRings(*rings),
		repair.WithDihedralAngle(*angle),
		repair.WithEpsilon(*eps),
		repair.WithPreserveGenus(*genus),
	}
	if *steps != 0 {
		opts = append(opts, repair.WithMaxSteps(*steps))
	}
	if *verbose {
		opts = append(opts, repair.WithLogger(log.Default()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	before := m.Triangles(nil)
	stats, repairErr := repair.Remove(ctx, m, opts...)
	if repairErr != nil && !errors.Is(repairErr, repair.ErrStepBudgetExhausted) {
		log.Fatal(repairErr)
	}
	log.Printf("%d steps, %d regions repaired (smoothing %d/%d, hole filling %d/%d), %d unsolved, %d topology rejections",
		stats.Steps, stats.Repaired(),
		stats.ConstrainedSmoothing, stats.UnconstrainedSmoothing,
		stats.ConstrainedHoleFilling, stats.UnconstrainedHoleFilling,
		stats.Unsolved, stats.TopologyRejected)

	if err := save(output, m); err != nil {
		log.Fatal(err)
	}
	if *preview != "" {
		if err := savePreview(*preview, before, m.Triangles(nil)); err != nil {
			log.Fatal(err)
		}
	}
	if repairErr != nil {
		log.Printf("%d intersecting pairs left", stats.Residual)
		os.Exit(2)
	}
}

func load(path string) ([]r3.Triangle, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return render.LoadOBJ(path)
	case ".stl":
		return render.LoadSTL(path)
	}
	return nil, fmt.Errorf("%s: unsupported file extension", path)
}

func save(path string, m *meshfix.Mesh) error {
	if m.NumFaces() == 0 {
		return fmt.Errorf("%s: repaired mesh is empty", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		fp, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := render.WriteOBJ(fp, m); err != nil {
			fp.Close()
			return err
		}
		return fp.Close()
	case ".stl":
		return render.CreateSTL(path, render.NewMeshRenderer(m))
	}
	return fmt.Errorf("%s: unsupported file extension", path)
}

// savePreview writes the meshes before and after repair side by side.
func savePreview(path string, before, after []r3.Triangle) error {
	sheet := image.NewRGBA(image.Rect(0, 0, 2*previewWidth, previewHeight))
	for i, tris := range [][]r3.Triangle{before, after} {
		if len(tris) == 0 {
			continue
		}
		img, err := render.Preview(tris, previewWidth, previewHeight, render.DefaultView)
		if err != nil {
			return err
		}
		at := image.Rect(i*previewWidth, 0, (i+1)*previewWidth, previewHeight)
		draw.Draw(sheet, at, img, img.Bounds().Min, draw.Src)
	}
	return render.SavePNG(path, sheet)
}
