package cmd

import (
	"fmt"

	"github.com/deso-protocol/pearldiver/curl"
	"github.com/deso-protocol/pearldiver/trinary"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var hashCmd = &cobra.Command{
	Use:   "hash [trytes]",
	Short: "Print the Curl-P hash of trytes",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHash,
}

func init() {
	hashCmd.Flags().String("trytes", "", "The trytes to hash. May also be given as the argument.")
	hashCmd.Flags().Int("rounds", curl.CurlP81, "Number of rounds per transform.")
	rootCmd.AddCommand(hashCmd)
}

func runHash(cmd *cobra.Command, args []string) error {
	trytes, err := trytesInput(cmd, args)
	if err != nil {
		return errors.Wrapf(err, "hash: ")
	}
	rounds, _ := cmd.Flags().GetInt("rounds")

	trits, err := trinary.TrytesToTrits(trytes)
	if err != nil {
		return errors.Wrapf(err, "hash: ")
	}
	hash, err := curl.HashWithRounds(trits, rounds)
	if err != nil {
		return errors.Wrapf(err, "hash: ")
	}
	fmt.Fprintln(cmd.OutOrStdout(), trinary.MustTritsToTrytes(hash))
	return nil
}

// trytesInput returns the --trytes flag or the single argument.
func trytesInput(cmd *cobra.Command, args []string) (trinary.Trytes, error) {
	trytes, _ := cmd.Flags().GetString("trytes")
	if trytes == "" && len(args) == 1 {
		trytes = args[0]
	}
	if trytes == "" {
		return "", errors.New("no trytes given")
	}
	return trytes, nil
}
