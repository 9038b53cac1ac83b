package cli

import (
	"fmt"

	"github.com/ddvk/layerframes/frames"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "onion",
		Short: "List the keys drawn at a frame with onion skinning",
		RunE:  runOnion,
	}
	cmd.Flags().StringP("layer", "l", "", "Layer name (default: active layer)")
	cmd.Flags().IntP("frame", "f", 0, "Current frame")
	cmd.Flags().String("mode", "", "absolute, relative or selected (default: document setting)")
	cmd.Flags().Int("before", -1, "Ghosts before (default: document setting)")
	cmd.Flags().Int("after", -1, "Ghosts after (default: document setting)")
	cmd.Flags().Bool("loop", false, "Wrap around the last key")
	cmd.Flags().Bool("multi", false, "Multi frame editing, show selected keys")
	RootCmd.AddCommand(cmd)
}

func parseMode(s string) (frames.OnionSkinningMode, error) {
	for _, m := range []frames.OnionSkinningMode{frames.OnionSkinningAbsolute, frames.OnionSkinningRelative, frames.OnionSkinningSelected} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown onion skinning mode: %s", s)
}

func runOnion(cmd *cobra.Command, args []string) error {
	layerName, _ := cmd.Flags().GetString("layer")
	frameNumber, _ := cmd.Flags().GetInt("frame")
	mode, _ := cmd.Flags().GetString("mode")
	before, _ := cmd.Flags().GetInt("before")
	after, _ := cmd.Flags().GetInt("after")
	loop, _ := cmd.Flags().GetBool("loop")
	multi, _ := cmd.Flags().GetBool("multi")

	return withDocument(cmd.Context(), false, func(doc *frames.Document) (bool, error) {
		l, err := findLayer(doc, layerName)
		if err != nil {
			return false, err
		}
		settings := doc.OnionSkinning
		if mode != "" {
			if settings.Mode, err = parseMode(mode); err != nil {
				return false, err
			}
		}
		if before >= 0 {
			settings.FramesBefore = before
		}
		if after >= 0 {
			settings.FramesAfter = after
		}
		if cmd.Flags().Changed("loop") {
			settings.Loop = loop
		}
		visible := frames.VisibleFrames(l, frameNumber, frames.VisibleFramesOptions{
			MultiFrameEditing: multi,
			OnionSkinning:     true,
			Settings:          settings,
		})
		out := cmd.OutOrStdout()
		for _, v := range visible {
			fmt.Fprintf(out, "%d offset:%d drawing:%d\n", v.FrameNumber, v.Offset, l.DrawingIndexAt(v.FrameNumber))
		}
		return false, nil
	})
}
