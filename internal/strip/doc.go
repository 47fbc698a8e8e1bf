// Package strip abstracts the physical LED strip behind a small Device
// interface so the render loop never knows what hardware it drives.
//
// Four drivers are provided:
//   - console: paints frames as ANSI true-colour cells, for development
//   - null: discards frames, for headless operation and tests
//   - adalight: streams frames to a serial microcontroller running an
//     Adalight sketch
//   - ws2811: drives GPIO-attached WS281x strips on a Raspberry Pi;
//     requires building with the ws2811 tag because the driver links
//     against the rpi_ws281x C library
//
// A strip configured as reversed is wrapped in an adapter that flips
// pixel order before the driver sees the frame, so travelling effects
// run the other way without the effects knowing.
package strip
