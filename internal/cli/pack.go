package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/logicossoftware/go-uasset"
	"github.com/spf13/cobra"
)

var (
	codecFlag string
	outFlag   string
)

func init() {
	pack := &cobra.Command{
		Use:   "pack <file>",
		Short: "Compress a segment file",
		Long:  "Compresses a package segment file with the chosen codec and writes it next to the input with the codec suffix (for example Hero.uexp.zst).",
		Args:  cobra.ExactArgs(1),
		RunE:  runPack,
	}
	pack.Flags().StringVarP(&codecFlag, "codec", "c", "zstd", "Codec: zlib, zstd, lz4 or brotli")
	pack.Flags().StringVarP(&outFlag, "out", "o", "", "Output file (default: input plus codec suffix)")

	unpack := &cobra.Command{
		Use:   "unpack <file>",
		Short: "Decompress a segment file",
		Long:  "Decompresses a segment file written by pack. The codec is taken from the file suffix.",
		Args:  cobra.ExactArgs(1),
		RunE:  runUnpack,
	}
	unpack.Flags().StringVarP(&outFlag, "out", "o", "", "Output file (default: input without codec suffix)")

	RootCmd.AddCommand(pack, unpack)
}

func runPack(cmd *cobra.Command, args []string) error {
	comp, err := uasset.ParseCompression(codecFlag)
	if err != nil {
		return err
	}
	if comp == uasset.CompNone {
		return fmt.Errorf("codec %q does not compress", codecFlag)
	}
	in, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	out, err := uasset.CompressSegment(comp, in)
	if err != nil {
		return fmt.Errorf("compress %s: %w", args[0], err)
	}
	dst := outFlag
	if dst == "" {
		dst = args[0] + comp.Suffix()
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s -> %s, %s)\n", dst,
		humanize.IBytes(uint64(len(in))), humanize.IBytes(uint64(len(out))), comp)
	return nil
}

func runUnpack(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	base, comp := uasset.SplitCompressionSuffix(args[0])
	if comp == uasset.CompNone {
		return fmt.Errorf("%s has no codec suffix", args[0])
	}
	in, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	out, err := uasset.DecompressSegment(comp, in, cfg.Limits().MaxSegmentUncompressed)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", args[0], err)
	}
	dst := outFlag
	if dst == "" {
		dst = base
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", dst, humanize.IBytes(uint64(len(out))))
	return nil
}
