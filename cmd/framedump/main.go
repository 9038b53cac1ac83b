package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ddvk/layerframes/frames"
	"github.com/ddvk/layerframes/internal/logging"
	log "github.com/sirupsen/logrus"
)

func dumpDocument(r io.Reader, out io.Writer, points bool) (err error) {
	doc, err := frames.ReadDocument(r)
	if err != nil {
		return
	}
	log.Info("parsed: ", doc)

	fmt.Fprintf(out, "Number of Layers: %d\n", len(doc.Tree.Layers()))
	for _, layer := range doc.Tree.Layers() {
		fmt.Fprintf(out, "%v\n", layer)
		for _, e := range layer.Entries() {
			duration, _ := layer.FrameDuration(e.FrameNumber)
			fmt.Fprintf(out, "\t%v duration:%d\n", e, duration)
		}
	}
	fmt.Fprintf(out, "Number of Drawings: %d\n", len(doc.Drawings))
	for i, drawing := range doc.Drawings {
		if drawing == nil {
			fmt.Fprintf(out, "%d: <freed>\n", i)
			continue
		}
		fmt.Fprintf(out, "%d: %v\n", i, drawing)
		for j, line := range drawing.Lines {
			fmt.Fprintf(out, "\tLine: %d points: %d\n", j, len(line.Points))
			if !points {
				continue
			}
			for _, point := range line.Points {
				fmt.Fprintf(out, "\t\t\tX: %f Y: %f speed: %d width: %d\n", point.X, point.Y, point.Speed, point.Width)
			}
		}
	}
	return
}

func _main() error {
	if len(os.Args) < 2 {
		log.Print("missing file")
		return nil
	}
	filename := os.Args[1]
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return dumpDocument(file, os.Stdout, len(os.Args) > 2 && os.Args[2] == "-points")
}

func main() {
	logging.Setup(os.Stdout, true)
	err := _main()
	if err != nil {
		log.Fatal(err)
	}
}
