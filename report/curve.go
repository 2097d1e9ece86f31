package report

import (
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/histgbm/dataset"
	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
)

var curveColors = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 255, G: 127, B: 14, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
	color.RGBA{R: 148, G: 103, B: 189, A: 255},
}

// LearningCurvePlot builds a plot of training MSE against boosting round,
// one line per target that has a loss history.
func LearningCurvePlot(losses map[dataset.Target][]float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Training loss"
	p.X.Label.Text = "Round"
	p.Y.Label.Text = "MSE"
	p.Legend.Top = true

	lines := 0
	for _, t := range dataset.AllTargets() {
		history := losses[t]
		if len(history) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(history))
		for i, v := range history {
			pts[i].X = float64(i + 1)
			pts[i].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, histerrors.Wrapf(err, "learning curve for %s", t.Name())
		}
		line.Color = curveColors[int(t)%len(curveColors)]
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(t.Name(), line)
		lines++
	}
	if lines == 0 {
		return nil, histerrors.NewValueError("LearningCurvePlot", "no loss history to plot")
	}
	return p, nil
}

// WriteLearningCurve renders the plot in format ("png", "svg" or "pdf").
func WriteLearningCurve(w io.Writer, losses map[dataset.Target][]float64, format string) error {
	p, err := LearningCurvePlot(losses)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, format)
	if err != nil {
		return histerrors.Wrapf(err, "render %s", format)
	}
	_, err = wt.WriteTo(w)
	return histerrors.Wrap(err, "write learning curve")
}

// PlotLearningCurve saves the plot to path; the extension picks the format.
func PlotLearningCurve(path string, losses map[dataset.Target][]float64) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		format = "png"
	}
	f, err := os.Create(path)
	if err != nil {
		return histerrors.Wrapf(err, "create %s", path)
	}
	if err := WriteLearningCurve(f, losses, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
