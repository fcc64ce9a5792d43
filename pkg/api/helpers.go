package api

import "time"

// RecordStageAndStepInfo records details about each run stage and step.
func RecordStageAndStepInfo(stages []StageInfo, stageName StageName, stepName StepName, startTime time.Time, endTime time.Time) []StageInfo {
	// If the stage already exists, update the endTime and duration, and
	// append the new step.
	for stageKey, stageVal := range stages {
		if stageVal.Name == stageName {
			stages[stageKey].DurationMilliseconds = endTime.Sub(stages[stageKey].StartTime).Milliseconds()
			stages[stageKey].Steps = append(stages[stageKey].Steps, StepInfo{
				Name:                 stepName,
				StartTime:            startTime,
				DurationMilliseconds: endTime.Sub(startTime).Milliseconds(),
			})
			return stages
		}
	}

	// If the stage does not exist yet, add it to the slice along with the
	// new step.
	return append(stages, StageInfo{
		Name:                 stageName,
		StartTime:            startTime,
		DurationMilliseconds: endTime.Sub(startTime).Milliseconds(),
		Steps: []StepInfo{
			{
				Name:                 stepName,
				StartTime:            startTime,
				DurationMilliseconds: endTime.Sub(startTime).Milliseconds(),
			},
		},
	})
}
