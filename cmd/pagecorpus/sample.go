package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/pagecorpus/corpus"
	"github.com/hazyhaar/pagecorpus/docpipe"
)

func newSampleCmd() *cobra.Command {
	var (
		corpusPath string
		n          int
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print random records of a written corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if n < 1 {
				return fmt.Errorf("-n must be >= 1")
			}
			records, err := corpus.ReadJSON(corpusPath)
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), corpus.Sample(records, n, nil))
		},
	}
	cmd.Flags().StringVar(&corpusPath, "corpus", "teste_admitere_fizica.json", "corpus file to sample from")
	cmd.Flags().IntVarP(&n, "n", "n", 1, "number of records")
	return cmd
}

func printRecords(w io.Writer, records []docpipe.PageRecord) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if records == nil {
		records = []docpipe.PageRecord{}
	}
	return enc.Encode(records)
}
