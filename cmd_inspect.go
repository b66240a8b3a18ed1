package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/dot5enko/pointindex/dataset"
	"github.com/dot5enko/pointindex/io"
)

type columnInfo struct {
	Dim int   `json:"dim"`
	Min int32 `json:"min"`
	Max int32 `json:"max"`
}

type datasetInfo struct {
	Path    string       `json:"path"`
	Codec   string       `json:"codec"`
	Points  int          `json:"points"`
	Bytes   int          `json:"bytes"`
	Columns []columnInfo `json:"columns"`
}

var inspectOpts struct {
	dataset string
	dims    int
	json    bool
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print size and per column bounds of a dataset",
	RunE: func(cmd *cobra.Command, args []string) error {

		info, err := inspect(inspectOpts.dataset, inspectOpts.dims)
		if err != nil {
			return err
		}

		if inspectOpts.json {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		color.Green("%s: %d points, %d bytes, codec %s", info.Path, info.Points, info.Bytes, info.Codec)
		for _, col := range info.Columns {
			fmt.Printf(" dim %d : [%d, %d]\n", col.Dim, col.Min, col.Max)
		}

		return nil
	},
}

func init() {
	fs := inspectCmd.Flags()

	fs.StringVar(&inspectOpts.dataset, "dataset", "", "points file")
	fs.IntVar(&inspectOpts.dims, "dims", 0, "point dimensions")
	fs.BoolVar(&inspectOpts.json, "json", false, "print json")

	inspectCmd.MarkFlagRequired("dataset")
	inspectCmd.MarkFlagRequired("dims")
}

func inspect(path string, dims int) (datasetInfo, error) {

	loaded, err := io.LoadPoints(path, io.PointsLoadOptions{Dims: dims, Mmap: true})
	if err != nil {
		return datasetInfo{}, err
	}
	defer loaded.Close()

	ds, err := dataset.New(dataset.ColumnLayout, loaded.Points)
	if err != nil {
		return datasetInfo{}, err
	}

	info := datasetInfo{
		Path:    path,
		Codec:   loaded.Codec.String(),
		Points:  ds.Size(),
		Bytes:   ds.SizeInBytes(),
		Columns: make([]columnInfo, dims),
	}

	for dim := range dims {
		b := ds.Bounds(dim)
		info.Columns[dim] = columnInfo{Dim: dim, Min: int32(b.Min), Max: int32(b.Max)}
	}

	return info, nil
}
