package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aperturefits/gofits"
	"github.com/aperturefits/gofits/internal/flog"
)

var decompressCmd = &cobra.Command{
	Use:   "decompress <file-or-s3-url>",
	Short: "Decompress every tile-compressed image HDU and report per-tile extents",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecompress,
}

func runDecompress(cmd *cobra.Command, args []string) error {
	src, closeFn, err := openSource(args[0])
	if err != nil {
		return err
	}
	defer closeFn()

	warnings := make(chan fits.Warning, 16)
	stream := fits.Open(src)
	stream.SetWarnings(warnings)
	go func() {
		for w := range warnings {
			flog.Warning.Println(w)
		}
	}()

	hduIdx := 0
	for {
		h, err := stream.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !h.IsTileCompressed() {
			hduIdx++
			continue
		}
		ti, err := h.TileImage()
		if err != nil {
			return err
		}
		tileIdx := 0
		for {
			pixels, shape, err := ti.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			fmt.Printf("HDU %d tile %d: shape=%v samples=%d\n", hduIdx, tileIdx, shape, len(pixels))
			tileIdx++
		}
		hduIdx++
	}
}
