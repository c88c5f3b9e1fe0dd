package cmd

import (
	"fmt"

	"github.com/deso-protocol/pearldiver/lib"
	"github.com/deso-protocol/pearldiver/pearldiver"
	"github.com/deso-protocol/pearldiver/trinary"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var ErrInsufficientWeight = errors.New("hash does not meet the minimum weight magnitude")

var verifyCmd = &cobra.Command{
	Use:   "verify [trytes]",
	Short: "Check that the hash of trytes ends with --mwm zero trits",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().String("trytes", "", "The trytes to verify. May also be given as the argument.")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	trytes, err := trytesInput(cmd, args)
	if err != nil {
		return errors.Wrapf(err, "verify: ")
	}
	mwm := viper.GetInt("mwm")

	hash, err := lib.HashTrytes(trytes)
	if err != nil {
		return errors.Wrapf(err, "verify: ")
	}
	zeros := pearldiver.TrailingZeros(trinary.MustTrytesToTrits(hash))
	if zeros < mwm {
		fmt.Fprintln(cmd.OutOrStdout(), CLog(Red, fmt.Sprintf("invalid: %d trailing zero trits, need %d", zeros, mwm)))
		return errors.Wrapf(ErrInsufficientWeight, "verify: %d < %d", zeros, mwm)
	}
	fmt.Fprintln(cmd.OutOrStdout(), CLog(Green, fmt.Sprintf("valid: %d trailing zero trits", zeros)))
	return nil
}
