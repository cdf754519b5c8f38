package shared

const (
	ParticipantID = "participant_id"
	TabID         = "tab_id"

	ConditionGamified = "gamified"
	ConditionControl  = "control"

	MaxHearts = 20

	EndReasonNormal     = "normal"
	EndReasonTabHidden  = "tab_hidden"
	EndReasonPageUnload = "page_unload"
	EndReasonPageHide   = "page_hide"
	EndReasonLogout     = "logout"

	EventLogin         = "login"
	EventLogout        = "logout"
	EventQuizCompleted = "quiz_completed"
	EventAnswerJudged  = "answer_judged"
	EventVideoStarted  = "video_started"
	EventVideoFinished = "video_finished"

	EndpointQuizComplete  = "quiz_complete"
	EndpointAnswerJudged  = "answer_judged"
	EndpointSessionSignal = "session_signal"
)

func IsValidCondition(condition string) bool {
	return condition == ConditionGamified || condition == ConditionControl
}
