package ukf

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// MonteCarloConfig configures Monte Carlo runs of the filter over simulated trajectories.
type MonteCarloConfig struct {
	Runs        int
	Sim         SimConfig // Seed is offset by the run number
	Parallelism int       // Maximum number of concurrent runs, GOMAXPROCS if not positive
	Log         logr.Logger
}

// MonteCarloRun stores the results of one run.
type MonteCarloRun struct {
	Seed  uint64
	RMSE  TruthState
	Lidar NISSummary
	Radar NISSummary
}

// MonteCarloRuns stores MC runs.
type MonteCarloRuns struct {
	Runs []MonteCarloRun
}

// RunMonteCarlo runs independent filters over mc.Runs simulated trajectories.
// Runs are executed concurrently, each with its own UKF.
func RunMonteCarlo(ctx context.Context, cfg Config, mc MonteCarloConfig) (*MonteCarloRuns, error) {
	if mc.Runs <= 0 {
		return nil, errors.New("must request at least one Monte Carlo run")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := mc.Log
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	limit := mc.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	runs := make([]MonteCarloRun, mc.Runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for r := 0; r < mc.Runs; r++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			simCfg := mc.Sim
			simCfg.Seed = mc.Sim.Seed + uint64(r)
			run, err := monteCarloRun(cfg, simCfg, log.WithValues("run", r))
			if err != nil {
				return fmt.Errorf("run #%d: %w", r, err)
			}
			runs[r] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &MonteCarloRuns{Runs: runs}, nil
}

func monteCarloRun(cfg Config, simCfg SimConfig, log logr.Logger) (MonteCarloRun, error) {
	samples, err := Simulate(simCfg)
	if err != nil {
		return MonteCarloRun{}, err
	}
	kf, err := NewUKF(cfg, WithLogger(log))
	if err != nil {
		return MonteCarloRun{}, err
	}
	truth := NewGroundTruth()
	monitor := NewNISMonitor()
	for _, sample := range samples {
		est, err := kf.ProcessMeasurement(sample.Measurement)
		if errors.Is(err, ErrSensorDisabled) {
			continue
		}
		if err != nil {
			return MonteCarloRun{}, err
		}
		truth.Error(est, sample.Truth)
		monitor.Add(est)
	}
	rmse, err := truth.RMSE()
	if err != nil {
		return MonteCarloRun{}, err
	}
	log.V(1).Info("run done", "rmse", rmse)
	return MonteCarloRun{Seed: simCfg.Seed, RMSE: rmse, Lidar: monitor.Summary(Lidar), Radar: monitor.Summary(Radar)}, nil
}

// MeanRMSE returns the mean over all runs of each RMSE component.
func (mc MonteCarloRuns) MeanRMSE() TruthState {
	px, py, vx, vy := mc.components()
	return TruthState{stat.Mean(px, nil), stat.Mean(py, nil), stat.Mean(vx, nil), stat.Mean(vy, nil)}
}

// StdDevRMSE returns the standard deviation over all runs of each RMSE component.
func (mc MonteCarloRuns) StdDevRMSE() TruthState {
	px, py, vx, vy := mc.components()
	return TruthState{stat.StdDev(px, nil), stat.StdDev(py, nil), stat.StdDev(vx, nil), stat.StdDev(vy, nil)}
}

func (mc MonteCarloRuns) components() (px, py, vx, vy []float64) {
	for _, run := range mc.Runs {
		px = append(px, run.RMSE.Px)
		py = append(py, run.RMSE.Py)
		vx = append(vx, run.RMSE.Vx)
		vy = append(vy, run.RMSE.Vy)
	}
	return
}

// AsCSV is used as a CSV serializer, with a header line.
func (mc MonteCarloRuns) AsCSV() []string {
	lines := []string{"seed,rmse_px,rmse_py,rmse_vx,rmse_vy,lidar_nis_mean,lidar_nis_above,radar_nis_mean,radar_nis_above"}
	for _, run := range mc.Runs {
		lines = append(lines, fmt.Sprintf("%d,%f,%f,%f,%f,%f,%f,%f,%f", run.Seed, run.RMSE.Px, run.RMSE.Py, run.RMSE.Vx, run.RMSE.Vy,
			run.Lidar.Mean, run.Lidar.FractionAbove, run.Radar.Mean, run.Radar.FractionAbove))
	}
	return lines
}
