package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aperturefits/gofits"
)

var tableCmd = &cobra.Command{
	Use:   "table <file-or-s3-url>",
	Short: "Dump row/field counts for every table HDU",
	Args:  cobra.ExactArgs(1),
	RunE:  runTable,
}

func runTable(cmd *cobra.Command, args []string) error {
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
		switch {
		case h.IsTileCompressed():
			bt, _ := h.BinTable()
			fmt.Printf("HDU %d: tile-compressed bintable, %d rows (tiles), %d columns\n", hduIdx, bt.Naxis2, len(bt.Fields))
		case h.Kind() == fits.HduBinTable:
			bt, _ := h.BinTable()
			rows, err := h.Rows()
			if err != nil {
				return err
			}
			n := 0
			for {
				if _, err := rows.Next(); err == io.EOF {
					break
				} else if err != nil {
					return err
				}
				n++
			}
			fmt.Printf("HDU %d: bintable, %d rows, %d columns\n", hduIdx, n, len(bt.Fields))
		case h.Kind() == fits.HduAsciiTable:
			at, _ := h.AsciiTable()
			fmt.Printf("HDU %d: ascii table, %d rows, %d columns\n", hduIdx, at.Naxis2, len(at.Fields))
		}
		hduIdx++
	}
}
