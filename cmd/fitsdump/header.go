package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aperturefits/gofits"
)

var headerCmd = &cobra.Command{
	Use:   "header <file-or-s3-url>",
	Short: "Dump every HDU's header cards",
	Args:  cobra.ExactArgs(1),
	RunE:  runHeader,
}

func runHeader(cmd *cobra.Command, args []string) error {
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
		fmt.Printf("HDU %d (%s):\n", hduIdx, h.Kind())
		for _, c := range h.Header.Cards {
			switch c.Kind {
			case fits.CardCommentary, fits.CardBlank:
				fmt.Printf("  %-8s %s\n", c.Keyword, c.Text)
			case fits.CardValue:
				fmt.Printf("  %-8s = %v  / %s\n", c.Keyword, cardValue(c), c.Comment)
			}
		}
		hduIdx++
	}
}

func cardValue(c *fits.Card) interface{} {
	switch c.ValueKind {
	case fits.ValueLogical:
		return c.Bool
	case fits.ValueInteger:
		return c.Int
	case fits.ValueFloat:
		return c.Float
	case fits.ValueComplex:
		return fmt.Sprintf("%g %g", c.ComplexRe, c.ComplexIm)
	case fits.ValueString:
		return c.Str
	default:
		return ""
	}
}
