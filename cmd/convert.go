package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deso-protocol/pearldiver/trinary"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var ErrUnknownFormat = errors.New("unknown format")

var convertCmd = &cobra.Command{
	Use:   "convert VALUE",
	Short: "Convert between ASCII text, trytes and trits",
	Long: `convert re-encodes VALUE. Formats are ascii, trytes and trits. Trits are
written as comma separated values, for example "-1,0,1".`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("from", "ascii", "Format of VALUE: ascii, trytes or trits.")
	convertCmd.Flags().String("to", "trytes", "Output format: ascii, trytes or trits.")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	out, err := Convert(args[0], from, to)
	if err != nil {
		return errors.Wrapf(err, "convert: ")
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// Convert re-encodes value from one format to another, going through trytes.
func Convert(value string, from string, to string) (string, error) {
	var trytes trinary.Trytes
	switch from {
	case "ascii":
		var err error
		if trytes, err = trinary.ASCIIToTrytes(value); err != nil {
			return "", err
		}
	case "trytes":
		if err := trinary.ValidTrytes(value); err != nil {
			return "", err
		}
		trytes = value
	case "trits":
		trits, err := ParseTrits(value)
		if err != nil {
			return "", err
		}
		if trytes, err = trinary.TritsToTrytes(trits); err != nil {
			return "", err
		}
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "Convert: from %q", from)
	}

	switch to {
	case "ascii":
		return trinary.TrytesToASCII(trytes)
	case "trytes":
		return trytes, nil
	case "trits":
		return FormatTrits(trinary.MustTrytesToTrits(trytes)), nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "Convert: to %q", to)
}

// ParseTrits parses comma separated trit values.
func ParseTrits(value string) (trinary.Trits, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return trinary.Trits{}, nil
	}
	fields := strings.Split(value, ",")
	trits := make(trinary.Trits, len(fields))
	for ii, field := range fields {
		t, err := strconv.ParseInt(strings.TrimSpace(field), 10, 8)
		if err != nil {
			return nil, errors.Wrapf(trinary.ErrInvalidTrit, "ParseTrits: %q at index %d", field, ii)
		}
		trits[ii] = trinary.Trit(t)
	}
	if err := trinary.ValidTrits(trits); err != nil {
		return nil, errors.Wrapf(err, "ParseTrits: ")
	}
	return trits, nil
}

func FormatTrits(trits trinary.Trits) string {
	fields := make([]string, len(trits))
	for ii, t := range trits {
		fields[ii] = strconv.Itoa(int(t))
	}
	return strings.Join(fields, ",")
}
