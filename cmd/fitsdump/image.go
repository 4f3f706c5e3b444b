package main

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/aperturefits/gofits"
)

var imageCmd = &cobra.Command{
	Use:   "image <file-or-s3-url>",
	Short: "Dump basic stats (count, min, max) for every image HDU",
	Args:  cobra.ExactArgs(1),
	RunE:  runImage,
}

func runImage(cmd *cobra.Command, args []string) error {
	src, closeFn, err := openSource(args[0])
	if err != nil {
		return err
	}
	defer closeFn()

	stream := fits.Open(src)
	hduIdx := 0
	for {
		h, err := stream.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		desc, ok := h.Image()
		if !ok {
			hduIdx++
			continue
		}
		im, err := h.ImageData()
		if err != nil {
			return err
		}
		min, max := math.Inf(1), math.Inf(-1)
		var n int64
		for {
			s, err := im.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			v := desc.Bzero + desc.Bscale*s.Float64()
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			n++
		}
		fmt.Printf("HDU %d: bitpix=%d naxis=%v samples=%d min=%g max=%g\n", hduIdx, desc.Bitpix, desc.Naxis, n, min, max)
		hduIdx++
	}
}
