package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Prathmesh1703/SearchEngine/src/infrastructure/integrations/elastic"
)

var seedFile string

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a JSONL corpus into the local elastic provider",
	Long: `The seed command bulk-loads documents into the Elasticsearch index
backing the local "elastic" search provider.

Each input line is one JSON document with title, url and text fields:

  {"title": "...", "url": "https://...", "text": "..."}`,
	Run: func(cmd *cobra.Command, args []string) {
		if seedFile == "" {
			fmt.Println("Error: --file is required")
			return
		}

		esURL := viper.GetString("elasticsearch.url")
		if esURL == "" {
			fmt.Println("Error: elasticsearch.url is not configured")
			return
		}

		docs, err := readCorpus(seedFile)
		if err != nil {
			fmt.Printf("Error reading corpus: %v\n", err)
			return
		}
		if len(docs) == 0 {
			fmt.Println("Corpus is empty, nothing to do")
			return
		}

		es, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{esURL},
		})
		if err != nil {
			fmt.Printf("Error creating elasticsearch client: %v\n", err)
			return
		}
		sdk := elastic.NewSDK(es, viper.GetString("elasticsearch.index"))

		ctx := context.Background()
		bar := progressbar.Default(int64(len(docs)), "indexing")

		indexed := 0
		for _, doc := range docs {
			if err := sdk.Index(ctx, doc); err != nil {
				fmt.Printf("\nError indexing %s: %v\n", doc.URL, err)
				continue
			}
			indexed++
			bar.Add(1)
		}

		fmt.Printf("\nIndexed %d/%d documents into %q\n", indexed, len(docs), viper.GetString("elasticsearch.index"))
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Path to the JSONL corpus file")
}

func readCorpus(path string) ([]elastic.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var docs []elastic.Document
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var doc elastic.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if doc.URL == "" {
			return nil, fmt.Errorf("line %d: missing url", line)
		}
		docs = append(docs, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
