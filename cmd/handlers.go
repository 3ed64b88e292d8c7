package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	e "github.com/pkg/errors"
	"github.com/urfave/cli"
	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"

	"github.com/sahib/cowdisk"
	"github.com/sahib/cowdisk/bench"
	"github.com/sahib/cowdisk/blockio"
	"github.com/sahib/cowdisk/defaults"
	"github.com/sahib/cowdisk/store"
)

func handleVersion(ctx *cli.Context) error {
	fmt.Println(cowdisk.VersionString())
	return nil
}

// parseSizeFlag reads a humanized size from `flag`, falling back
// to `fallback` when the flag was not given.
func parseSizeFlag(ctx *cli.Context, flag string, fallback int64) (int64, error) {
	val := ctx.String(flag)
	if val == "" {
		return fallback, nil
	}

	size, err := humanize.ParseBytes(val)
	if err != nil {
		return 0, e.Wrapf(err, "bad value for --%s", flag)
	}

	return int64(size), nil
}

func handleInfo(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	opts := defaults.StoreOptions(cfg)

	blockSize, err := parseSizeFlag(ctx, "block-size", opts.BlockSize)
	if err != nil {
		return err
	}

	maxBitmap, err := parseSizeFlag(ctx, "bitmap-size", opts.MaxBitmapSize)
	if err != nil {
		return err
	}

	img, err := blockio.Open(ctx.Args().First())
	if err != nil {
		return err
	}

	defer img.Close()

	size, err := img.Size()
	if err != nil {
		return err
	}

	layout, err := store.CalcLayout(size, blockSize, maxBitmap)
	if err != nil {
		return err
	}

	fmt.Printf("Image size   %s (%d bytes)\n", humanize.IBytes(uint64(layout.Size)), layout.Size)
	fmt.Printf("Block size   %s\n", humanize.IBytes(uint64(layout.BlockSize)))
	fmt.Printf("Group size   %s (%d blocks)\n", humanize.IBytes(uint64(layout.GroupSize)), layout.GroupBlocks)
	fmt.Printf("Group count  %d\n", layout.GroupCount)
	fmt.Printf("Bitmap size  %s (%s allowed)\n",
		humanize.IBytes(uint64(layout.BitmapSize)),
		humanize.IBytes(uint64(maxBitmap)),
	)

	return nil
}

func handleBench(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	opts := defaults.StoreOptions(cfg)

	size, err := parseSizeFlag(ctx, "size", 4*1024*1024)
	if err != nil {
		return err
	}

	benchCfg := bench.Config{
		Size:           size,
		BlockSize:      opts.BlockSize,
		MaxBitmapSize:  opts.MaxBitmapSize,
		CopyBufferSize: opts.CopyBufferSize,
		Writes:         ctx.Int("writes"),
		MaxWriteBlocks: ctx.Int("max-write-blocks"),
		Seed:           ctx.Int64("seed"),
		Verify:         !ctx.Bool("no-verify"),
	}

	isJSON := ctx.Bool("json")

	var tick func()
	var progress *mpb.Progress

	if !isJSON {
		progress = mpb.New(mpb.WithWidth(60))
		bar := progress.AddBar(
			int64(benchCfg.Writes),
			mpb.PrependDecorators(
				decor.Name("writes "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)

		tick = bar.Increment
	}

	result, err := bench.Run(benchCfg, tick)
	if err != nil {
		return err
	}

	if progress != nil {
		progress.Wait()
	}

	if isJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "    ")
		return enc.Encode(result)
	}

	fmt.Println()
	fmt.Println("Took         ", result.Took)
	fmt.Printf("Image size    %s in %d groups of %s\n",
		humanize.IBytes(uint64(result.Config.Size)),
		result.GroupCount,
		humanize.IBytes(uint64(result.GroupSize)),
	)
	fmt.Printf("Written       %s requested, %s to overlay\n",
		humanize.IBytes(uint64(result.Stats.WriteRequested)),
		humanize.IBytes(uint64(result.Stats.WrittenOverlay)),
	)
	fmt.Printf("Promoted      %s\n", humanize.IBytes(uint64(result.Stats.ReadForPromote)))
	fmt.Printf("Over-write    %.2f%%\n", result.OverWrite)
	fmt.Printf("Over-read     %.2f%%\n", result.OverRead)
	fmt.Printf("Dirty groups  %d / %d\n", result.DirtyGroups, result.GroupCount)

	return nil
}
