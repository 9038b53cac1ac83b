package cli

import (
	"errors"
	"fmt"

	"github.com/ddvk/layerframes/frames"
	"github.com/spf13/cobra"
)

func init() {
	add := &cobra.Command{
		Use:   "add",
		Short: "Key a drawing at a frame",
		RunE:  runAdd,
	}
	add.Flags().StringP("layer", "l", "", "Layer name (default: active layer)")
	add.Flags().IntP("frame", "f", 0, "Frame number")
	add.Flags().IntP("duration", "t", 0, "Duration in frames, 0 holds the drawing")
	add.Flags().Int("drawing", frames.NullIndex, "Existing drawing index (default: new drawing)")
	add.Flags().Int("copy-from", 0, "Key a copy of the drawing keyed at this frame")
	RootCmd.AddCommand(add)

	rm := &cobra.Command{
		Use:   "rm",
		Short: "Remove the key at a frame",
		RunE:  runRm,
	}
	rm.Flags().StringP("layer", "l", "", "Layer name (default: active layer)")
	rm.Flags().IntP("frame", "f", 0, "Frame number")
	RootCmd.AddCommand(rm)

	keys := &cobra.Command{
		Use:   "keys",
		Short: "Print the keys of a layer",
		RunE:  runKeys,
	}
	keys.Flags().StringP("layer", "l", "", "Layer name (default: active layer)")
	RootCmd.AddCommand(keys)

	at := &cobra.Command{
		Use:   "at",
		Short: "Print the drawing shown at a frame",
		RunE:  runAt,
	}
	at.Flags().StringP("layer", "l", "", "Layer name (default: active layer)")
	at.Flags().IntP("frame", "f", 0, "Frame number")
	RootCmd.AddCommand(at)

	sel := &cobra.Command{
		Use:   "select",
		Short: "Select or deselect the key at a frame",
		RunE:  runSelect,
	}
	sel.Flags().StringP("layer", "l", "", "Layer name (default: active layer)")
	sel.Flags().IntP("frame", "f", 0, "Frame number")
	sel.Flags().Bool("off", false, "Deselect instead")
	RootCmd.AddCommand(sel)
}

func runAdd(cmd *cobra.Command, args []string) error {
	layerName, _ := cmd.Flags().GetString("layer")
	frameNumber, _ := cmd.Flags().GetInt("frame")
	duration, _ := cmd.Flags().GetInt("duration")
	drawing, _ := cmd.Flags().GetInt("drawing")
	src, _ := cmd.Flags().GetInt("copy-from")
	copyFrom := cmd.Flags().Changed("copy-from")

	return withDocument(cmd.Context(), false, func(doc *frames.Document) (bool, error) {
		l, err := findLayer(doc, layerName)
		if err != nil {
			return false, err
		}
		var frame *frames.FrameRecord
		if copyFrom {
			_, frame = doc.InsertDuplicateKeyframe(l, src, frameNumber, duration)
		} else if drawing == frames.NullIndex {
			_, frame = doc.InsertKeyframe(l, frameNumber, duration)
		} else {
			if _, ok := doc.Drawings.DrawingAt(drawing); !ok {
				return false, fmt.Errorf("no drawing at index %d", drawing)
			}
			frame = l.AddFrame(frameNumber, drawing, duration)
		}
		if frame == nil {
			return false, fmt.Errorf("cannot add frame %d on layer %s", frameNumber, l.Name)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d: %v\n", frameNumber, *frame)
		return l.FramesMapChanged(), nil
	})
}

func runRm(cmd *cobra.Command, args []string) error {
	layerName, _ := cmd.Flags().GetString("layer")
	frameNumber, _ := cmd.Flags().GetInt("frame")

	return withDocument(cmd.Context(), false, func(doc *frames.Document) (bool, error) {
		l, err := findLayer(doc, layerName)
		if err != nil {
			return false, err
		}
		if !doc.RemoveFrames(l, []int{frameNumber}) {
			return false, fmt.Errorf("cannot remove frame %d on layer %s", frameNumber, l.Name)
		}
		return true, nil
	})
}

func runKeys(cmd *cobra.Command, args []string) error {
	layerName, _ := cmd.Flags().GetString("layer")

	return withDocument(cmd.Context(), false, func(doc *frames.Document) (bool, error) {
		l, err := findLayer(doc, layerName)
		if err != nil {
			return false, err
		}
		out := cmd.OutOrStdout()
		for _, e := range l.Entries() {
			duration, _ := l.FrameDuration(e.FrameNumber)
			fmt.Fprintf(out, "%v duration:%d\n", e, duration)
		}
		return false, nil
	})
}

func runAt(cmd *cobra.Command, args []string) error {
	layerName, _ := cmd.Flags().GetString("layer")
	frameNumber, _ := cmd.Flags().GetInt("frame")

	return withDocument(cmd.Context(), false, func(doc *frames.Document) (bool, error) {
		l, err := findLayer(doc, layerName)
		if err != nil {
			return false, err
		}
		out := cmd.OutOrStdout()
		index := l.DrawingIndexAt(frameNumber)
		if d := doc.DrawingAt(l, frameNumber); d != nil {
			fmt.Fprintf(out, "%d %v\n", index, d)
		} else {
			fmt.Fprintf(out, "%d\n", index)
		}
		return false, nil
	})
}

func runSelect(cmd *cobra.Command, args []string) error {
	layerName, _ := cmd.Flags().GetString("layer")
	frameNumber, _ := cmd.Flags().GetInt("frame")
	off, _ := cmd.Flags().GetBool("off")

	return withDocument(cmd.Context(), false, func(doc *frames.Document) (bool, error) {
		l, err := findLayer(doc, layerName)
		if err != nil {
			return false, err
		}
		if !l.SelectFrame(frameNumber, !off) {
			return false, errors.New("no key at frame")
		}
		return l.FramesMapKeysChanged(), nil
	})
}
