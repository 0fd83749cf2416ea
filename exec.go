package svgtrace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/esimov/svgtrace/utils"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// Ops describes a tracing job started from the command line.
type Ops struct {
	// Src and Dst are files, directories, URLs (Src only) or PipeName for stdin/stdout.
	Src, Dst, PipeName string
	// Preview is an optional raster image path the traced result is rendered into.
	// It is ignored in directory mode.
	Preview string
	Workers int
	Spinner *utils.Spinner

	stderr io.Writer
}

// result holds the relevant information about the tracing process of a single file.
type result struct {
	path string
	err  error
}

// Execute runs the tracing job. The source can be a single image, a pipe,
// an image URL or a directory, in which case every image found in the
// directory tree is traced concurrently into Dst.
func (p *Processor) Execute(op *Ops) error {
	if op.stderr == nil {
		op.stderr = os.Stderr
	}
	if op.Spinner == nil {
		msg := fmt.Sprintf("%s %s",
			utils.DecorateText("⚡ SVGTRACE", utils.StatusMessage),
			utils.DecorateText("⇢ tracing image...", utils.DefaultMessage),
		)
		op.Spinner = utils.NewSpinner(msg, time.Millisecond*80, true)
	}

	// Capture CTRL-C signal and restore the cursor visibility.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalChan)
	go func() {
		if _, ok := <-signalChan; ok {
			op.Spinner.RestoreCursor()
			os.Exit(1)
		}
	}()

	src := op.Src
	// Check if the source path is a local image or URL.
	if utils.IsValidUrl(src) {
		f, err := utils.DownloadImage(src)
		if f != nil {
			defer os.Remove(f.Name())
			f.Close()
		}
		if err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
		src = f.Name()
	}

	var (
		fs  os.FileInfo
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if src == op.PipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(src)
	}
	if err != nil {
		return fmt.Errorf("failed to load the source image: %w", err)
	}

	now := time.Now()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		err = op.batch(p, src)
	case mode.IsRegular() || mode&os.ModeNamedPipe != 0: // check for regular files or pipe names
		if ext := filepath.Ext(op.Dst); ext != ".svg" && op.Dst != op.PipeName {
			return fmt.Errorf("%v file type not supported, the destination should be an svg file", ext)
		}
		op.Spinner.Start()
		err = op.process(p, src, op.Dst, op.Preview)
		op.stopSpinner(err)
		op.printOpStatus(op.Dst, err)
	default:
		return fmt.Errorf("unsupported source: %s", op.Src)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(op.stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage),
	)
	return nil
}

// batch traces recursively the image files of the src directory using a pool of workers.
func (op *Ops) batch(p *Processor, src string) error {
	if err := os.MkdirAll(op.Dst, 0755); err != nil {
		return fmt.Errorf("unable to create the destination directory: %w", err)
	}

	// Limit the concurrently running workers to maxWorkers.
	workers := op.Workers
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}

	ch := make(chan result)
	done := make(chan struct{})
	defer close(done)

	paths, errc := walkDir(done, src)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			op.consumer(p, src, ch, done, paths)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	op.Spinner.Start()
	var total, failed int
	for res := range ch {
		total++
		if res.err != nil {
			failed++
		}
		op.printOpStatus(res.path, res.err)
	}

	op.stopSpinner(nil)

	if err := <-errc; err != nil {
		return fmt.Errorf("could not walk the source directory: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d images could not be traced", failed, total)
	}
	return nil
}

// consumer reads the path names from the paths channel and traces the images into the destination directory.
func (op *Ops) consumer(
	p *Processor,
	root string,
	res chan<- result,
	done <-chan struct{},
	paths <-chan string,
) {
	for src := range paths {
		dst, err := op.batchDst(root, src)
		if err == nil {
			err = op.process(p, src, dst, "")
		}
		if err != nil {
			err = fmt.Errorf("%s: %w", src, err)
		}

		select {
		case <-done:
			return
		case res <- result{
			path: dst,
			err:  err,
		}:
		}
	}
}

// batchDst returns the destination of an image found under the root directory.
// The subdirectories are mirrored and the source extension is kept, so images
// sharing a base name (a.png, a.jpg, x/a.png) never write to the same file.
func (op *Ops) batchDst(root, src string) (string, error) {
	rel, err := filepath.Rel(root, src)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(op.Dst, rel+".svg")
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("unable to create the destination directory: %w", err)
	}
	return dst, nil
}

// process traces the image found at the in path and writes the svg document to out.
func (op *Ops) process(p *Processor, in, out, preview string) (err error) {
	src, dst, err := op.pathToFile(in, out)
	if err != nil {
		return err
	}
	defer func() {
		if f, ok := src.(*os.File); ok && f != os.Stdin {
			f.Close()
		}
	}()
	defer func() {
		if f, ok := dst.(*os.File); ok && f != os.Stdout {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
			// Remove the generated file in case of an error.
			if err != nil {
				os.Remove(f.Name())
			}
		}
	}()

	img, err := decodeImg(src)
	if err != nil {
		return err
	}
	doc, err := p.Trace(img)
	if err != nil {
		return err
	}
	if err := doc.Encode(dst); err != nil {
		return err
	}
	if preview != "" {
		return writePreview(doc, preview)
	}
	return nil
}

// stopSpinner stops the progress indicator with a message reflecting the outcome.
func (op *Ops) stopSpinner(err error) {
	if err != nil {
		op.Spinner.StopMsg = fmt.Sprintf("%s %s %s\n",
			utils.DecorateText("⚡ SVGTRACE", utils.StatusMessage),
			utils.DecorateText("tracing failed...", utils.DefaultMessage),
			utils.DecorateText("✘", utils.ErrorMessage),
		)
	} else {
		op.Spinner.StopMsg = fmt.Sprintf("%s %s %s\n",
			utils.DecorateText("⚡ SVGTRACE", utils.StatusMessage),
			utils.DecorateText("⇢", utils.DefaultMessage),
			utils.DecorateText("tracing finished ✔", utils.SuccessMessage),
		)
	}
	op.Spinner.Stop()
}

// writePreview renders the traced document into a raster image.
func writePreview(doc *SVG, path string) error {
	img, err := Render(strings.NewReader(doc.String()))
	if err != nil {
		return fmt.Errorf("could not render the preview: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create the preview file: %w", err)
	}
	defer f.Close()

	if err := encodeImg(f, img, filepath.Ext(path)); err != nil {
		os.Remove(path)
		return fmt.Errorf("could not encode the preview: %w", err)
	}
	return nil
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %w", err)
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			if f, ok := src.(*os.File); ok && f != os.Stdin {
				f.Close()
			}
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			if f, ok := src.(*os.File); ok && f != os.Stdin {
				f.Close()
			}
			return nil, nil, fmt.Errorf("unable to create the destination file: %w", err)
		}
	}
	return src, dst, nil
}

// printOpStatus displays the relevant information about the tracing process.
func (op *Ops) printOpStatus(fname string, err error) {
	if err != nil {
		fmt.Fprintf(op.stderr, "%s%s",
			utils.DecorateText("\nError tracing the image: ", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
		)
		return
	}
	if fname != op.PipeName {
		fmt.Fprintf(op.stderr, "\nThe image has been saved as: %s %s\n\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each supported image to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(done <-chan struct{}, src string) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() || !isImageExt(f.Name()) {
				return nil
			}
			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}
