// Package readalong is the interactive layer of a storybook reading
// companion built on [Ebitengine]: tappable reward balloons, decorative
// loading balloons and a translated-text overlay that reads each line
// aloud.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop around a [Stage]:
//
//	stage := readalong.NewStage(1080, 1920, font)
//	field := readalong.NewBalloonField(cfg.Balloons, 0, stage.Loop())
//	stage.AddLayer(field)
//	field.InstallResults(items)
//	field.Start()
//	readalong.Run(stage, readalong.RunConfig{Title: "Rewards"})
//
// # Threading
//
// All engine state lives on one logical UI thread: the goroutine running
// [Stage.Update]. Tick schedulers and coverage pollers run their timers on
// background goroutines and post work through the stage's [Loop]; every
// posted closure checks that its owner is still active before touching
// state, so Stop, Dispose and Close take effect immediately.
//
// # Balloons
//
// [BalloonField] shows one labeled balloon per translated line. Tapping a
// balloon plays a 400 ms burst; when it completes OnPopped fires, and once
// every balloon is gone OnAllPopped fires exactly once. [AmbientField] keeps
// a stream of textless balloons rising across a loading screen.
//
// # Page overlay
//
// A [Page] combines a [Synchronizer], which places [TextRegion]s over the
// page image and tracks which have audio, a [Poller], which fetches audio
// coverage from a [CoverageSource] until every region is covered, and a
// [Controller], which plays a region's clips in order through an
// [AudioBackend]. [EbitenBackend] plays WAV and MP3 clips with
// ebiten/v2/audio.
//
// # Configuration and logging
//
// [Config] collects every tunable and loads from JSON with [LoadConfig].
// Components log through logrus; see [SetLogger] and [NewLogger].
//
// Stage events can be bridged into a [Donburi] world with the readalong/ecs
// adapter.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package readalong
