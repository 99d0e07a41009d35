package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/gogpu/glrender"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// surfaceRows describes cfg as (property, value) rows.
func surfaceRows(cfg glrender.SurfaceConfig) [][]string {
	return [][]string{
		{"red bits", strconv.Itoa(cfg.Red)},
		{"green bits", strconv.Itoa(cfg.Green)},
		{"blue bits", strconv.Itoa(cfg.Blue)},
		{"alpha bits", strconv.Itoa(cfg.Alpha)},
		{"depth bits", strconv.Itoa(cfg.Depth)},
		{"stencil bits", strconv.Itoa(cfg.Stencil)},
		{"color format", cfg.ColorFormat().String()},
		{"depth format", cfg.DepthFormat().String()},
	}
}

// attributeRows lists the vertex attribute locations of loaded meshes.
func attributeRows() [][]string {
	return [][]string{
		{"position", strconv.Itoa(glrender.AttribPosition), "vec3"},
		{"texcoord", strconv.Itoa(glrender.AttribTexCoord), "vec2"},
		{"normal", strconv.Itoa(glrender.AttribNormal), "vec3"},
	}
}

// assetRows lists the files of fsys with their sizes.
func assetRows(fsys fs.FS) ([][]string, error) {
	var rows [][]string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rows = append(rows, []string{path, strconv.FormatInt(info.Size(), 10)})
		return nil
	})
	return rows, err
}

func renderTable(w io.Writer, title string, header []any, rows [][]string) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", title); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header(header...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func printInfo(ctx *cli.Context) error {
	setupLogging(ctx)
	return writeInfo(os.Stdout)
}

func writeInfo(w io.Writer) error {
	if err := renderTable(w, "Surface configuration", []any{"Property", "Value"},
		surfaceRows(glrender.DefaultSurfaceConfig)); err != nil {
		return err
	}
	if err := renderTable(w, "Mesh attribute locations", []any{"Attribute", "Location", "Type"},
		attributeRows()); err != nil {
		return err
	}

	assets, err := demoAssets()
	if err != nil {
		return err
	}
	rows, err := assetRows(assets.FS)
	if err != nil {
		return err
	}
	return renderTable(w, "Demo assets", []any{"Name", "Bytes"}, rows)
}
