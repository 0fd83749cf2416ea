/*
Package svgtrace is a raster to vector conversion library, which traces the
colored regions of an image into a scalable vector graphic made of filled paths.

The conversion runs in a pipeline of independent stages: the colors are reduced
to a small palette, the pixels sharing a palette color are grouped into
4-connected regions, the boundary of every region is traced into closed polygons,
the polygons are simplified and smoothed with quadratic curves, and finally
the resulting shapes are serialized into the SVG markup.

The package provides a command line interface, supporting various flags for
tuning the fidelity of the traced image. To check the supported commands type:

	$ svgtrace --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/esimov/svgtrace"
	)

	func main() {
		p := svgtrace.DefaultProcessor()
		p.ColorCount = 16
		p.LineFilter = true

		svg, err := p.Convert(img)
		if err != nil {
			fmt.Printf("Error tracing image: %s", err.Error())
		}
		fmt.Println(svg)
	}
*/
package svgtrace
