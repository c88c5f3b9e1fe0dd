package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/deso-protocol/pearldiver/lib"
	"github.com/deso-protocol/pearldiver/pearldiver"
	"github.com/deso-protocol/pearldiver/trinary"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var powCmd = &cobra.Command{
	Use:   "pow [trytes]",
	Short: "Find a nonce for trytes and print the result",
	Long: `pow replaces the nonce of the input so that its hash ends with --mwm
zero trits. Transactions of 2673 trytes use the last 27 trytes as the nonce
and are answered from the solution store when possible. Other inputs must be
a whole number of 81 tryte blocks and may place the nonce elsewhere with
--region, --nonce-offset and --nonce-length.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPow,
}

func init() {
	powCmd.Flags().String("trytes", "", "The trytes to search. May also be given as the argument.")
	powCmd.Flags().Duration("timeout", 0, "Give up after this long. Zero waits until a nonce is found.")
	powCmd.Flags().String("region", "tail", "Block holding the nonce: tail, body or head.")
	powCmd.Flags().Int("nonce-offset", -1, "Trit offset of the nonce. Defaults to the last nonce-length trits.")
	powCmd.Flags().Int("nonce-length", pearldiver.NonceLength, "Length of the nonce in trits.")
	rootCmd.AddCommand(powCmd)
}

func runPow(cmd *cobra.Command, args []string) error {
	config := LoadConfig()
	config.SetupLogging()
	config.Print()

	trytes, err := trytesInput(cmd, args)
	if err != nil {
		return errors.Wrapf(err, "pow: ")
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	regionName, _ := cmd.Flags().GetString("region")
	nonceOffset, _ := cmd.Flags().GetInt("nonce-offset")
	nonceLength, _ := cmd.Flags().GetInt("nonce-length")
	region, err := pearldiver.ParseRegion(regionName)
	if err != nil {
		return errors.Wrapf(err, "pow: ")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	stats, err := lib.NewStatsReporter(config.StatsdAddress)
	if err != nil {
		return errors.Wrapf(err, "pow: ")
	}
	defer stats.Close()

	var result trinary.Trytes
	isTransaction := len(trytes) == lib.TransactionTrytes && region == pearldiver.RegionTail &&
		nonceOffset < 0 && nonceLength == pearldiver.NonceLength
	if isTransaction {
		result, err = powTransaction(ctx, config, stats, trytes)
	} else {
		result, err = powRaw(ctx, config, stats, trytes, region, nonceOffset, nonceLength)
	}
	if err != nil {
		return errors.Wrapf(err, "pow: ")
	}

	totals := stats.Totals()
	glog.Infof(CLog(Cyan, fmt.Sprintf("pow: %d searches, %d hashes, %.0f hashes/s",
		totals.Searches, totals.Hashes, totals.HashRate())))
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}

func powTransaction(ctx context.Context, config *Config, stats *lib.StatsReporter,
	trytes trinary.Trytes) (trinary.Trytes, error) {

	var store *lib.SolutionStore
	if !config.NoStore {
		var err error
		store, err = lib.OpenSolutionStore(config.DataDirectory)
		if err != nil {
			return "", err
		}
		defer store.Close()
	}

	service, err := lib.NewPoWService(&lib.PoWServiceConfig{
		Workers:   config.Workers,
		CacheSize: config.CacheSize,
		Store:     store,
		Stats:     stats,
	})
	if err != nil {
		return "", err
	}
	return service.PerformPoW(ctx, trytes, config.MinWeightMagnitude)
}

func powRaw(ctx context.Context, config *Config, stats *lib.StatsReporter, trytes trinary.Trytes,
	region pearldiver.Region, nonceOffset int, nonceLength int) (trinary.Trytes, error) {

	trits, err := trinary.TrytesToTrits(trytes)
	if err != nil {
		return "", err
	}
	if nonceOffset < 0 {
		nonceOffset = len(trits) - nonceLength
	}

	pd := pearldiver.New(pearldiver.WithWorkers(config.Workers), pearldiver.WithStats(stats))
	result, err := pd.Search(ctx, pearldiver.Config{
		Trits:              trits,
		MinWeightMagnitude: config.MinWeightMagnitude,
		NonceOffset:        nonceOffset,
		NonceLength:        nonceLength,
		Region:             region,
	})
	if err != nil {
		return "", err
	}
	return trinary.MustTritsToTrytes(result.Trits), nil
}
