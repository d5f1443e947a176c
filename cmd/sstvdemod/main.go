// Command sstvdemod reads a WAV file of pre-discriminated SSTV audio
// (normalized frequency samples, per the decoder's input convention) and
// writes each decoded image as a PPM file, optionally streaming rows over
// a websocket and exposing decode counters on a Prometheus endpoint.
package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/kb4yz/sstvdemod/internal/decoder"
	"github.com/kb4yz/sstvdemod/internal/ringbuffer"
	"github.com/kb4yz/sstvdemod/internal/sstvmode"
)

func main() {
	in := flag.String("in", "", "input WAV file of normalized frequency-discriminator samples")
	outPrefix := flag.String("out", "sstv", "output PPM file prefix (images are written <prefix>-0001.ppm, ...)")
	configPath := flag.String("config", "", "optional YAML config file")
	probe := flag.Bool("probe", false, "decode only the VIS header of each image, skip scanlines")
	listModes := flag.Bool("modes", false, "print the mode catalog and exit")
	verbose := flag.Bool("verbose", false, "log decode progress")
	flag.Parse()

	if *listModes {
		printModeCatalog()
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logOut := io.Writer(os.Stderr)
	if !*verbose && !cfg.Logging.Verbose {
		logOut = io.Discard
	}
	logger := log.New(logOut, "", log.LstdFlags)

	if *in == "" {
		fmt.Fprintln(os.Stderr, "sstvdemod: -in is required")
		os.Exit(1)
	}

	samples, err := readNormalizedSamples(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sstvdemod: %v\n", err)
		os.Exit(1)
	}

	src := ringbuffer.NewSampleRing(len(samples) + 1)
	src.Write(samples)
	dst := ringbuffer.NewByteRing(1 << 20)

	d := decoder.New(src, dst, logger)
	d.SetProbeOnly(*probe)
	// The whole file is already buffered in src; nothing more will ever
	// arrive, so Run can tell a real stall apart from backoff.
	d.CloseInput()

	var streamer *rowStreamer
	stop := make(chan struct{})
	if cfg.Websocket.Enabled {
		streamer = newRowStreamer(logger)
		go streamer.serve(cfg.Websocket.Listen)
	}
	if cfg.Metrics.Enabled {
		go servePrometheus(cfg.Metrics.Listen, d, logger, stop)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	drainer := newImageDrainer(*outPrefix, *probe, streamer, logger)
	completed := d.Stats().ImagesCompleted
	d.Run(ctx, func() {
		drainer.drain(dst)
		if n := d.Stats().ImagesCompleted; n > completed {
			completed = n
			logger.Printf("[SSTV] image %d complete", completed)
		}
	})
	close(stop)

	logger.Printf("[SSTV] done: %+v", d.Stats())
}

// readNormalizedSamples loads a mono WAV file and rescales its PCM samples
// to the [-1,1]-ish normalized range the decoder expects, inverting the
// convert_f_s16-style scaling an upstream DSP pipeline applied to produce
// the file in the first place.
func readNormalizedSamples(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading WAV %s: %w", path, err)
	}
	return pcmToNormalized(buf), nil
}

func pcmToNormalized(buf *audio.IntBuffer) []float32 {
	ch := buf.Format.NumChannels
	if ch < 1 {
		ch = 1
	}
	full := 1 << (uint(buf.SourceBitDepth) - 1)
	out := make([]float32, len(buf.Data)/ch)
	for i := range out {
		out[i] = float32(buf.Data[i*ch]) / float32(full)
	}
	return out
}

// imageDrainer tracks the decoder's atomic output chunks (the SYNC marker
// plus descriptor, then width*height RGB rows) and writes each completed
// image to its own PPM file as the bytes arrive.
type imageDrainer struct {
	prefix   string
	probe    bool
	streamer *rowStreamer
	logger   *log.Logger

	count int

	awaitingHeader bool
	width, height  int
	vis            uint8
	rowsWritten    int
	file           *os.File
}

func newImageDrainer(prefix string, probe bool, streamer *rowStreamer, logger *log.Logger) *imageDrainer {
	return &imageDrainer{prefix: prefix, probe: probe, streamer: streamer, logger: logger, awaitingHeader: true}
}

func (g *imageDrainer) drain(dst *ringbuffer.ByteRing) {
	for {
		if g.awaitingHeader {
			if dst.Len() < 10 {
				return
			}
			header := make([]byte, 10)
			dst.Read(header)
			if g.streamer != nil {
				g.streamer.broadcast(header)
			}
			g.vis = uint8(binary.LittleEndian.Uint16(header[4:6]))
			g.width = int(binary.LittleEndian.Uint16(header[6:8]))
			g.height = int(binary.LittleEndian.Uint16(header[8:10]))
			g.rowsWritten = 0
			g.awaitingHeader = false

			if g.probe {
				// Probe mode never scans pixel data, so no rows follow
				// this header; go straight back to awaiting the next one.
				mode := sstvmode.FromVIS(g.vis)
				name := "unknown"
				if mode != nil {
					name = mode.Name
				}
				g.logger.Printf("[SSTV] probe: VIS %d (%s) %dx%d", g.vis, name, g.width, g.height)
				g.awaitingHeader = true
				continue
			}

			g.count++
			name := fmt.Sprintf("%s-%04d.ppm", g.prefix, g.count)
			f, err := os.Create(name)
			if err != nil {
				g.logger.Printf("[SSTV] could not create %s: %v", name, err)
				g.file = nil
			} else {
				fmt.Fprintf(f, "P6\n%d %d\n255\n", g.width, g.height)
				g.file = f
			}
			continue
		}

		rowBytes := g.width * 3
		if dst.Len() < rowBytes {
			return
		}
		row := make([]byte, rowBytes)
		dst.Read(row)
		if g.streamer != nil {
			g.streamer.broadcast(row)
		}
		if g.file != nil {
			g.file.Write(row)
		}
		g.rowsWritten++
		if g.rowsWritten >= g.height {
			if g.file != nil {
				g.file.Close()
				g.file = nil
			}
			g.awaitingHeader = true
		}
	}
}

func printModeCatalog() {
	fmt.Println("VIS  Name              Resolution  Color")
	for vis := 0; vis < 128; vis++ {
		m := sstvmode.FromVIS(uint8(vis))
		if m == nil {
			continue
		}
		fmt.Printf("%-4d %-17s %4dx%-4d %s\n", vis, m.Name, m.HorizontalPixels(), m.VerticalLines(), m.ColorLayout())
	}
}
