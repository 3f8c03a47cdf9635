package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Prathmesh1703/SearchEngine/src/core/engine"
	"github.com/Prathmesh1703/SearchEngine/src/infrastructure/integrations/ollama"
	"github.com/Prathmesh1703/SearchEngine/src/storage/vectormem"
)

var (
	searchDomains []string
	searchNum     int
	searchUseLLM  bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a one-shot meta-search from the command line",
	Long: `The search command runs one query through the full pipeline
(normalization, provider fan-out, ranking, reasoning) and prints the ranked
results and the synthesized answer.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.Join(args, " ")
		ctx := context.Background()

		oc := ollama.NewClient(viper.GetString("ollama.url"), &http.Client{
			Timeout: 60 * time.Second,
		})
		embedder := ollama.NewEmbedder(oc, viper.GetString("ollama.embedding_model"))
		llm := ollama.NewLLM(oc, viper.GetString("ollama.llm_model"))

		providers, err := buildProviders()
		if err != nil {
			fmt.Printf("Error building providers: %v\n", err)
			return
		}

		memory, err := vectormem.NewStore(viper.GetString("memory.dir"), viper.GetInt("memory.dim"))
		if err != nil {
			fmt.Printf("Error opening vector memory: %v\n", err)
			return
		}

		// No result cache for one-shot CLI runs
		orchestrator := engine.NewOrchestrator(providers, engine.NewRanker(embedder), embedder, memory, nil)
		reasoner := engine.NewReasoner(llm, orchestrator)

		effectiveQuery := query
		if searchUseLLM {
			normalizer := engine.NewNormalizer(llm)
			var debug string
			effectiveQuery, debug = normalizer.Normalize(ctx, query, searchDomains)
			fmt.Printf("Effective query: %s\n(%s)\n\n", effectiveQuery, debug)
		}

		results, err := orchestrator.Search(ctx, effectiveQuery, searchDomains, searchNum)
		if err != nil {
			fmt.Printf("Search failed: %v\n", err)
			return
		}

		fmt.Printf("Results (%d):\n", len(results))
		fmt.Println("-------------------")
		for i, item := range results {
			fmt.Printf("[%d] %.3f %s\n    %s (%s)\n", i+1, item.FinalScore, item.Title, item.URL, item.Provider)
		}

		answer := reasoner.Answer(ctx, effectiveQuery, results)
		fmt.Println("\nAnswer:")
		fmt.Println("-------------------")
		fmt.Println(answer.Summary)
		if len(answer.Citations) > 0 {
			fmt.Println("\nSources:")
			for _, c := range answer.Citations {
				fmt.Printf("[%d] %s\n", c.Index, c.URL)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringSliceVarP(&searchDomains, "domains", "d", nil, "Restrict results to these domains")
	searchCmd.Flags().IntVarP(&searchNum, "num", "n", 10, "Number of results")
	searchCmd.Flags().BoolVar(&searchUseLLM, "llm", false, "Normalize the query with the LLM first")
}
