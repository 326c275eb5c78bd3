package llm

import (
	"fmt"
	"strings"

	"alcyxob/program-api/internal/service"
)

const exerciseSelectionSystemPrompt = `You are an expert strength and conditioning coach. Select exercises for a workout from the provided exercise list only. Respond with JSON matching this schema exactly:
{
  "exercises": [
    {
      "exercise_id": "<id from the list>",
      "exercise_name": "<name from the list>",
      "sets": <1-10>,
      "reps": "<rep range or scheme, e.g. 8-12, 5x5, AMRAP>",
      "rest_seconds": <30-300>,
      "notes": "<optional form cue>",
      "order": <1-based position in the workout>
    }
  ],
  "workout_notes": "<optional general notes>",
  "estimated_duration_minutes": <20-120>
}
Never invent exercise ids. Order compound movements before isolation work.`

// buildExerciseSelectionPrompt renders the user prompt for one workout.
func buildExerciseSelectionPrompt(req service.PickRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Select exactly %d exercises for a %s workout.\n\n", req.ExerciseCount, req.WorkoutType)
	fmt.Fprintf(&b, "Goal: %s\n", req.Goal)
	fmt.Fprintf(&b, "Experience level: %s\n", req.ExperienceLevel)
	fmt.Fprintf(&b, "Target muscle groups: %s\n", strings.Join(req.MuscleGroups, ", "))
	fmt.Fprintf(&b, "Available equipment: %s\n", strings.Join(req.Equipment, ", "))
	fmt.Fprintf(&b, "Target intensity: %.0f%% of 1RM\n", req.IntensityPercent*100)
	fmt.Fprintf(&b, "Volume modifier: %.2f\n", req.VolumeModifier)
	if req.IsDeload {
		b.WriteString("This is a DELOAD week: reduce sets and keep intensity light.\n")
	}
	if len(req.Limitations) > 0 {
		fmt.Fprintf(&b, "User limitations to work around: %s\n", strings.Join(req.Limitations, "; "))
	}

	b.WriteString("\nAvailable exercises:\n")
	for _, ex := range req.AvailableExercises {
		equipment := "bodyweight"
		if len(ex.Equipment) > 0 {
			equipment = strings.Join(ex.Equipment, "+")
		}
		fmt.Fprintf(&b, "- id=%s name=%q muscles=%s category=%s equipment=%s\n",
			ex.ID, ex.Name, strings.Join(ex.PrimaryMuscles, ","), ex.Category, equipment)
	}

	return b.String()
}
