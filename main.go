package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/AlephTX/bbo-ingest/clock"
	"github.com/AlephTX/bbo-ingest/config"
	"github.com/AlephTX/bbo-ingest/engine"
	"github.com/AlephTX/bbo-ingest/nic"
	"github.com/AlephTX/bbo-ingest/pool"
	"github.com/AlephTX/bbo-ingest/shmring"
	"github.com/AlephTX/bbo-ingest/stats"
)

// poolSize is the default slot-pool size: 1024 records, comfortably
// inside L2 per spec.md §3.
const poolSize = 1024

func main() {
	os.Exit(run())
}

func run() int {
	config.LoadDotEnv(os.Getenv("BBO_INGEST_ENV"))

	overlay, err := config.LoadOverlay(os.Getenv("BBO_INGEST_CONFIG"))
	if err != nil {
		log.Printf("init: %v", err)
		return 1
	}

	cfg, err := config.Parse(os.Args[1:], overlay)
	if err != nil {
		log.Printf("init: %v", err)
		return 1
	}
	if cfg.Help {
		fmt.Println("bbo-ingest: kernel-bypass BBO ingest gateway")
		fmt.Println("  -p, --port u16        NIC port id (default 0)")
		fmt.Println("  -q, --queue u16       RX queue id (default 0)")
		fmt.Println("  -u, --udp-port u16    Filter UDP destination port (default 12345)")
		fmt.Println("  -c, --core i32        Pin to CPU core, -1 = none (default -1)")
		fmt.Println("  -s, --shm string      Shared-memory name suffix (default gateway)")
		fmt.Println("  -w, --warmup i32      Synthetic warm-up packets (default 1000)")
		fmt.Println("  -n, --no-warmup       Skip warm-up")
		fmt.Println("  -b, --benchmark       Periodic (5s) stats print")
		fmt.Println("  -h, --help            Print usage, exit 0")
		return 0
	}

	runID := stats.NewRunID()
	log.Printf("run=%s starting: port=%d queue=%d udp_port=%d core=%d shm=%s", runID, cfg.Port, cfg.Queue, cfg.UDPPort, cfg.Core, cfg.ShmName)

	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		log.Printf("init warning: mlockall failed (continuing unlocked): %v", err)
	}

	clk := clock.New()
	if err := clk.Calibrate(clock.DefaultCalibrationWindow); err != nil {
		log.Printf("init: clock calibration failed: %v", err)
		return 1
	}

	slotPool, err := pool.New(poolSize)
	if err != nil {
		log.Printf("init: slot pool allocation failed: %v", err)
		return 1
	}
	defer slotPool.Close()
	log.Printf("run=%s slot pool ready: %d slots, huge_pages=%v", runID, slotPool.Len(), slotPool.IsUsingHugePages())

	publisher, err := shmring.NewPublisher(cfg.ShmName, shmring.DefaultCapacity)
	if err != nil {
		log.Printf("init: ring publisher failed: %v", err)
		return 1
	}
	defer publisher.Close()

	poller := nic.NewLoopbackPoller()

	counters := stats.NewCounters()
	eng := engine.New(engine.Config{
		Port:          cfg.Port,
		Queue:         cfg.Queue,
		UDPPort:       cfg.UDPPort,
		WarmupPackets: int(cfg.WarmupPackets),
		SkipWarmup:    cfg.NoWarmup,
	}, clk, slotPool, publisher, poller, counters)

	if err := eng.Init(); err != nil {
		log.Printf("init: engine init failed: %v", err)
		return 1
	}
	if err := eng.Warmup(); err != nil {
		log.Printf("init: engine warm-up failed: %v", err)
		return 1
	}
	log.Printf("run=%s engine warm-up complete, entering run state", runID)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var metricsServer interface{ Close() error }
	if cfg.Benchmark {
		collector := stats.NewCollector(counters, runID)
		srv, err := stats.ServeMetrics(":9090", collector)
		if err != nil {
			log.Printf("init warning: metrics listener failed (continuing): %v", err)
		} else {
			metricsServer = srv
			defer metricsServer.Close()
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Run executes on whichever OS thread this goroutine lands on
		// unless that thread is locked down first: SchedSetaffinity
		// pins the calling OS thread, not the goroutine, so the pin
		// must happen on the same locked thread that then runs the
		// hot loop.
		runtime.LockOSThread()
		if cfg.Core >= 0 {
			if err := pinToCore(int(cfg.Core)); err != nil {
				return fmt.Errorf("core pinning to %d failed: %w", cfg.Core, err)
			}
		}
		return eng.Run()
	})
	if cfg.Benchmark {
		g.Go(func() error {
			stats.RunPrinter(gctx, counters, runID, stats.DefaultPrintInterval)
			return nil
		})
	}

	<-gctx.Done()
	eng.Stop()
	if err := g.Wait(); err != nil {
		log.Printf("run=%s engine exited with error: %v", runID, err)
		return 1
	}

	log.Printf("run=%s stopped cleanly", runID)
	return 0
}

// pinToCore pins the calling thread to a single logical CPU. Failure when
// a core was explicitly requested is fatal per spec.md §7: the design's
// latency contract assumes a pinned, isolated core.
func pinToCore(core int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(core)
	return unix.SchedSetaffinity(0, &set)
}
