package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/recview/poly"
	"github.com/wippyai/recview/record"
	"github.com/wippyai/recview/schema"
)

func main() {
	var (
		writeFile   = flag.String("write", "", "Write the sample polygons to file")
		readFile    = flag.String("read", "", "Dump header and polygons from file")
		schemaFile  = flag.String("schema", "", "Print the record layouts of a YAML schema")
		maxBytes    = flag.Int("max-bytes", record.DefaultMaxBytes, "Largest polygon payload to accept")
		verbose     = flag.Bool("v", false, "Debug logging to stderr")
		interactive = flag.Bool("i", false, "Interactive polygon browser (with -read)")
	)
	flag.Parse()

	if *writeFile == "" && *readFile == "" && *schemaFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: polyview -write <file>")
		fmt.Fprintln(os.Stderr, "       polyview -read <file> [-i] [-max-bytes n]")
		fmt.Fprintln(os.Stderr, "       polyview -schema <file.yaml>")
		os.Exit(1)
	}

	log := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log = l
	}
	record.SetLogger(log)

	if err := run(*writeFile, *readFile, *schemaFile, *maxBytes, *interactive); err != nil {
		_ = log.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(writeFile, readFile, schemaFile string, maxBytes int, interactive bool) error {
	if maxBytes < 0 {
		return fmt.Errorf("-max-bytes must not be negative, got %d", maxBytes)
	}
	st := newStyles(os.Stdout)

	if writeFile != "" {
		if err := writeSample(writeFile); err != nil {
			return err
		}
		fmt.Printf("Wrote %d polygons to %s\n", len(poly.Sample()), writeFile)
	}

	if schemaFile != "" {
		if err := printSchema(os.Stdout, st, schemaFile); err != nil {
			return err
		}
	}

	if readFile == "" {
		return nil
	}
	if interactive {
		return runInteractive(readFile, maxBytes)
	}
	return dump(os.Stdout, st, readFile, maxBytes)
}

func writeSample(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := poly.Write(w, poly.Sample()); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush: %w", err)
	}
	return f.Close()
}

func readPolygons(path string, maxBytes int) (poly.Header, []poly.Polygon, error) {
	f, err := os.Open(path)
	if err != nil {
		return poly.Header{}, nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return poly.Read(bufio.NewReader(f), record.WithMaxBytes(maxBytes))
}

func dump(w io.Writer, st styles, path string, maxBytes int) error {
	h, polys, err := readPolygons(path, maxBytes)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s %s\n", st.title.Render("Polygon file"), path)
	fmt.Fprintf(w, "%s %#x\n", st.label.Render("code: "), h.Code)
	fmt.Fprintf(w, "%s %d\n", st.label.Render("npoly:"), h.NPoly)
	fmt.Fprintf(w, "%s %s\n\n", st.label.Render("box:  "), formatBox(h.Box))

	for i, p := range polys {
		fmt.Fprintf(w, "%s %d points\n", st.field.Render(fmt.Sprintf("polygon %d:", i)), len(p))
		for _, pt := range p {
			fmt.Fprintf(w, "  %s\n", st.value.Render(formatPoint(pt)))
		}
	}

	if len(polys) == 0 {
		return nil
	}
	box, err := poly.BoundingBox(polys)
	if err != nil {
		fmt.Fprintf(w, "\n%s %v\n", st.err.Render("computed box:"), err)
		return nil
	}
	status := st.ok.Render("matches header")
	if box != h.Box {
		status = st.err.Render("differs from header")
	}
	fmt.Fprintf(w, "\n%s %s %s\n", st.label.Render("computed box:"), formatBox(box), status)
	return nil
}

func printSchema(w io.Writer, st styles, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	reg, err := schema.LoadYAML(data)
	if err != nil {
		return err
	}

	for _, name := range reg.Names() {
		t := reg.MustLookup(name)
		fmt.Fprintf(w, "%s %d bytes, %s\n", st.title.Render(name), t.Size(), t.Order())
		for _, f := range t.Fields() {
			kind := f.Format()
			if f.IsNested() {
				kind = f.Nested().Name()
			}
			fmt.Fprintf(w, "  %-4d %-16s %s %s\n", f.Offset(), st.field.Render(f.Name()), st.value.Render(kind), st.label.Render(fmt.Sprintf("(%d)", f.Width())))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func formatPoint(p poly.Point) string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

func formatBox(b poly.BBox) string {
	return fmt.Sprintf("(%g, %g) - (%g, %g)", b.MinX, b.MinY, b.MaxX, b.MaxY)
}
