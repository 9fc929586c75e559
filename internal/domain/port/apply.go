package port

import (
	"errors"
	"fmt"

	"github.com/zebras-launcher/backend/internal/shared/types"
)

// ConfigWriter persists a project's port into its local override file
type ConfigWriter interface {
	WritePort(project types.Project, port int) error
}

// ApplyPortChanges writes each change through writer, stopping at the first
// failure. Earlier writes are not rolled back. Changes naming a project
// that is not in projects are skipped.
func ApplyPortChanges(changes []types.PortChange, projects []types.Project, writer ConfigWriter) error {
	byName := make(map[string]types.Project, len(projects))
	for _, p := range projects {
		if _, dup := byName[p.Name]; !dup {
			byName[p.Name] = p
		}
	}

	for _, change := range changes {
		project, ok := byName[change.ProjectName]
		if !ok {
			continue
		}
		if err := writer.WritePort(project, change.NewPort); err != nil {
			if errors.Is(err, types.ErrConfigWriteFailure) {
				return err
			}
			return fmt.Errorf("%w: %s: %v", types.ErrConfigWriteFailure, project.Name, err)
		}
	}
	return nil
}
