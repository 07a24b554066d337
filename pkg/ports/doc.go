/*
Package ports defines the driven ports (interfaces) of chainviz.

These interfaces decouple the animation driver and the API from the external
programs and storage backends they talk to.

# Key Interfaces

  - FrameRenderer: turns one DOT description into one raster image (e.g. Graphviz).
  - Animator: assembles rendered frames into an animated image (e.g. ImageMagick).
  - RunStore: persists the history of finished simulations.
*/
package ports
