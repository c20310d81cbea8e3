package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/libration/internal/dynamo"
)

var stateColumns = []string{"time", "x", "y", "vx", "vy"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// TrajectoryInfo names one saved trajectory and how it was classified.
type TrajectoryInfo struct {
	Name           string `json:"name"`
	Classification string `json:"classification,omitempty"`
	File           string `json:"file"`
	Samples        int    `json:"samples"`
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Scenario     string             `json:"scenario"`
	System       string             `json:"system"`
	Mu           float64            `json:"mu"`
	Point        string             `json:"point"`
	X            float64            `json:"x"`
	Epsilon      float64            `json:"epsilon,omitempty"`
	Kick         float64            `json:"kick,omitempty"`
	Horizon      float64            `json:"horizon"`
	Timestamp    time.Time          `json:"timestamp"`
	Eigenvalues  [][2]float64       `json:"eigenvalues,omitempty"`
	Trajectories []TrajectoryInfo   `json:"trajectories"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Named pairs a trajectory with the name it is stored under.
type Named struct {
	Name           string
	Classification string
	Trajectory     *dynamo.Trajectory
}

func trajectoryFile(name string) string {
	return "branch_" + name + ".csv"
}

// Save writes metadata.json and one CSV per trajectory into a fresh run
// directory. ID, Timestamp and Trajectories of meta are filled in here.
func (s *Store) Save(meta RunMetadata, trajs []Named) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Scenario, now.Unix())
	runDir := filepath.Join(s.baseDir, runID)
	for n := 2; ; n++ {
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
		runID = fmt.Sprintf("%s_%d_%d", meta.Scenario, now.Unix(), n)
		runDir = filepath.Join(s.baseDir, runID)
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Trajectories = make([]TrajectoryInfo, 0, len(trajs))
	for _, nt := range trajs {
		file := trajectoryFile(nt.Name)
		if err := writeTrajectory(filepath.Join(runDir, file), nt.Trajectory); err != nil {
			return "", fmt.Errorf("write %s: %w", nt.Name, err)
		}
		meta.Trajectories = append(meta.Trajectories, TrajectoryInfo{
			Name:           nt.Name,
			Classification: nt.Classification,
			File:           file,
			Samples:        nt.Trajectory.Len(),
		})
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	return runID, nil
}

func writeTrajectory(path string, traj *dynamo.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(stateColumns); err != nil {
		return err
	}

	row := make([]string, len(stateColumns))
	for i, x := range traj.States {
		if len(x) != len(stateColumns)-1 {
			return fmt.Errorf("sample %d has %d components: %w", i, len(x), dynamo.ErrDimensionMismatch)
		}
		row[0] = strconv.FormatFloat(traj.Times[i], 'g', -1, 64)
		for j, v := range x {
			row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory reads back one named trajectory of a run.
func (s *Store) LoadTrajectory(runID, name string) (*dynamo.Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile(name)))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(stateColumns)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	traj := &dynamo.Trajectory{}
	if len(records) < 2 {
		return traj, nil
	}

	traj.Times = make([]float64, 0, len(records)-1)
	traj.States = make([]dynamo.State, 0, len(records)-1)

	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, stateColumns[j], err)
			}
			vals[j] = v
		}
		traj.Times = append(traj.Times, vals[0])
		traj.States = append(traj.States, dynamo.State(vals[1:]))
	}

	return traj, nil
}
