package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/libration/internal/dynamo"
)

type TrajectoryData struct {
	Name           string      `json:"name"`
	Classification string      `json:"classification,omitempty"`
	Times          []float64   `json:"times"`
	States         [][]float64 `json:"states"`
}

type ExportData struct {
	Scenario     string             `json:"scenario"`
	Mu           float64            `json:"mu"`
	Point        string             `json:"point"`
	X            float64            `json:"x"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
	Trajectories []TrajectoryData   `json:"trajectories"`
}

func NewTrajectoryData(name, classification string, traj *dynamo.Trajectory) TrajectoryData {
	td := TrajectoryData{
		Name:           name,
		Classification: classification,
		Times:          traj.Times,
		States:         make([][]float64, len(traj.States)),
	}
	for i, s := range traj.States {
		td.States[i] = s
	}
	return td
}

func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}
