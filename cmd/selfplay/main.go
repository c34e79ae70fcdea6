// cmd/selfplay generates self-play training data: binary chunks of
// (state, policy, value) samples a Python training pipeline can read
// directly, one MCTS-driven game per worker.
//
// Grounded on the teacher's cmd/selfplay/main.go: the chunked binary writer
// (X/P/Z files plus a meta.json per chunk), worker-pool-over-a-job-channel
// concurrency, and per-worker seeded RNGs carry over unchanged in shape;
// only the per-move search (mcts.Tree instead of a bitboard MCTS) and the
// state/policy encoders (package eval instead of a hex-board tensor) are
// new.
package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/wrongu/QuoridorV2/internal/eval"
	"github.com/wrongu/QuoridorV2/internal/game"
	"github.com/wrongu/QuoridorV2/internal/mcts"
	"github.com/wrongu/QuoridorV2/internal/oracle"
)

type rawSample struct {
	state  [eval.StateLen]float32
	policy [eval.PolicyLen]float64
	player int
}

type finishedSample struct {
	state  [eval.StateLen]float32
	policy [eval.PolicyLen]float64
	value  int8
}

// chunkWriter writes samples as sharded binary files: X.bin (float32
// states), P.bin (float64 policy targets), Z.bin (int8 outcomes), plus a
// meta.json per chunk recording its sample count.
type chunkWriter struct {
	outDir    string
	chunkSize int

	idx         int
	count       int
	currentBase string
	fx, fp, fz  *os.File
}

func newChunkWriter(outDir string, chunkSize int) *chunkWriter {
	return &chunkWriter{outDir: outDir, chunkSize: chunkSize}
}

func (w *chunkWriter) rotate() error {
	if w.fx != nil {
		w.fx.Close()
		w.fp.Close()
		w.fz.Close()
		w.writeMeta()
	}
	w.idx++
	w.count = 0
	w.currentBase = fmt.Sprintf("chunk_%05d", w.idx)

	var err error
	if w.fx, err = os.Create(filepath.Join(w.outDir, w.currentBase+"_X.bin")); err != nil {
		return err
	}
	if w.fp, err = os.Create(filepath.Join(w.outDir, w.currentBase+"_P.bin")); err != nil {
		return err
	}
	if w.fz, err = os.Create(filepath.Join(w.outDir, w.currentBase+"_Z.bin")); err != nil {
		return err
	}
	return nil
}

func (w *chunkWriter) writeMeta() error {
	meta := map[string]any{"samples": w.count}
	b, _ := json.MarshalIndent(meta, "", "  ")
	return os.WriteFile(filepath.Join(w.outDir, w.currentBase+"_meta.json"), b, 0o644)
}

func (w *chunkWriter) writeSample(s finishedSample) error {
	if w.fx == nil || w.count >= w.chunkSize {
		if err := w.rotate(); err != nil {
			return err
		}
	}
	if err := binary.Write(w.fx, binary.LittleEndian, s.state[:]); err != nil {
		return err
	}
	if err := binary.Write(w.fp, binary.LittleEndian, s.policy[:]); err != nil {
		return err
	}
	if _, err := w.fz.Write([]byte{byte(s.value)}); err != nil {
		return err
	}
	w.count++
	return nil
}

func (w *chunkWriter) close() {
	if w.fx != nil {
		w.fx.Close()
	}
	if w.fp != nil {
		w.fp.Close()
	}
	if w.fz != nil {
		w.fz.Close()
	}
	if w.count > 0 {
		w.writeMeta()
	}
}

func (w *chunkWriter) run(ch <-chan []finishedSample, done chan<- struct{}) {
	defer close(done)
	for batch := range ch {
		for _, s := range batch {
			if err := w.writeSample(s); err != nil {
				log.Printf("selfplay: write sample failed: %v", err)
				return
			}
		}
	}
	w.close()
}

func main() {
	numGames := flag.Int("n", 2000, "number of games to generate")
	sims := flag.Int("sims", 400, "MCTS simulations per move")
	cPuct := flag.Float64("cpuct", 1.5, "PUCT exploration constant")
	workers := flag.Int("workers", 0, "concurrent games (default: NumCPU/2, minimum 1)")
	outDir := flag.String("out", "selfplay_out", "output directory")
	chunkSize := flag.Int("chunk", 5000, "samples per output chunk")
	seed := flag.Int64("seed", time.Now().UnixNano(), "rng seed")
	flag.Parse()

	if *workers <= 0 {
		*workers = runtime.NumCPU() / 2
		if *workers < 1 {
			*workers = 1
		}
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("selfplay: mkdir %s: %v", *outDir, err)
	}

	log.Printf("selfplay: games=%d sims=%d workers=%d out=%s chunk=%d", *numGames, *sims, *workers, *outDir, *chunkSize)

	jobs := make(chan int, *workers*2)
	samplesCh := make(chan []finishedSample, *workers)

	writerDone := make(chan struct{})
	go newChunkWriter(*outDir, *chunkSize).run(samplesCh, writerDone)

	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func(wid int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(*seed + int64(wid)))
			for range jobs {
				samples, ok := playOneGame(*sims, *cPuct, r)
				if ok && len(samples) > 0 {
					samplesCh <- samples
				}
			}
		}(i)
	}

	for i := 0; i < *numGames; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(samplesCh)
	<-writerDone
	log.Println("selfplay done")
}

const maxPlies = 300

// playOneGame plays one MCTS-vs-itself game to completion (or maxPlies)
// and labels every recorded position with the eventual winner, from that
// position's own player's perspective.
func playOneGame(sims int, cPuct float64, r *rand.Rand) ([]finishedSample, bool) {
	g := game.New()
	o := oracle.NewUniform()

	tree, err := mcts.New(g, o)
	if err != nil {
		log.Printf("selfplay: building tree: %v", err)
		return nil, false
	}

	raws := make([]rawSample, 0, 64)
	ctx := context.Background()

	for ply := 0; ply < maxPlies && g.GetWinner() == -1; ply++ {
		target, err := tree.Search(ctx, cPuct, sims)
		if err != nil {
			log.Printf("selfplay: search failed: %v", err)
			break
		}

		raws = append(raws, rawSample{
			state:  eval.EncodeStateToPlanes(g),
			policy: target,
			player: g.CurrentPlayer(),
		})

		mv, err := sampleFromTarget(target, g, r)
		if err != nil {
			log.Printf("selfplay: sampling move: %v", err)
			break
		}
		if err := tree.StepAndPrune(mv); err != nil {
			log.Printf("selfplay: step_and_prune: %v", err)
			break
		}
	}

	if len(raws) == 0 {
		return nil, false
	}

	winner := g.GetWinner()
	out := make([]finishedSample, len(raws))
	for i, s := range raws {
		var v int8
		switch winner {
		case s.player:
			v = 1
		case -1:
			v = 0
		default:
			v = -1
		}
		out[i] = finishedSample{state: s.state, policy: s.policy, value: v}
	}
	return out, true
}

// sampleFromTarget draws a move from a visit-count policy target,
// weighted proportionally, falling back to a uniform legal move if the
// target somehow has no mass on any currently-legal move.
func sampleFromTarget(target [eval.PolicyLen]float64, g *game.Game, r *rand.Rand) (string, error) {
	legal := g.AllLegalMoves(false)
	if len(legal) == 0 {
		return "", fmt.Errorf("no legal moves")
	}

	type weighted struct {
		mv string
		w  float64
	}
	weights := make([]weighted, 0, len(legal))
	var total float64
	for _, mv := range legal {
		plane, row, col, err := eval.ActionToCoordinate(mv, g.CurrentPlayer())
		if err != nil {
			continue
		}
		w := target[plane*eval.GridSize*eval.GridSize+row*eval.GridSize+col]
		weights = append(weights, weighted{mv: mv, w: w})
		total += w
	}
	if total <= 0 {
		return legal[r.Intn(len(legal))], nil
	}

	draw := r.Float64() * total
	var cum float64
	for _, w := range weights {
		cum += w.w
		if draw <= cum {
			return w.mv, nil
		}
	}
	return weights[len(weights)-1].mv, nil
}
