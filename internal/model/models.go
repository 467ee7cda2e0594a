package model

// 所有模型的统一导入点
// 用于 AutoMigrate
var AllModels = []interface{}{
	&User{},
	&AuthToken{},
	&Organization{},
	&Process{},
	&RolePermission{},
	&Batch{},
	&BatchPhase{},
	&Trainee{},
	&Quiz{},
	&QuizQuestion{},
	&QuizAttempt{},
	&QuizAnswer{},
	&AudioFile{},
	&AudioFileAllocation{},
	&EvaluationTemplate{},
	&Pillar{},
	&Parameter{},
	&Evaluation{},
	&EvaluationScore{},
	&EvaluationFeedback{},
}
