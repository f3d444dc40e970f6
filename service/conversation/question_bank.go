/*
 * @module service/conversation/question_bank
 * @description 评估问题库：环境扫描的主题跟进问题、通用问题和结构化KPI问题
 * @architecture 数据定义层 - 静态问题库，每次会话重新取用
 * @documentReference ai_docs/assessment_req.md
 * @stateFlow 问题库加载 -> 引擎按主题/深度选题
 * @rules 问题文本面向最终用户，保持英文；问题ID稳定以便对话日志回溯
 * @dependencies compass-service/service/models
 * @refs engine.go
 */

package conversation

import "compass-service/service/models"

// foundationQuestion 固定的开场问题，所有环境扫描会话由此开始
var foundationQuestion = models.QuestionNode{
	ID:           "env_foundation",
	QuestionText: "Think about where you spend most of your time. How does that environment feel to you right now?",
	Depth:        1,
}

// spaceFollowups 空间主题的关键词专属跟进问题
// 命中space主题时优先按命中关键词取专属问题
var spaceFollowups = map[string]models.QuestionNode{
	"bedroom": {
		ID:           "env_space_bedroom",
		QuestionText: "What about your bedroom makes it feel that way? Is there anything you'd change about it?",
	},
	"kitchen": {
		ID:           "env_space_kitchen",
		QuestionText: "Tell me more about the kitchen. Do you cook or share meals there, and with whom?",
	},
	"bathroom": {
		ID:           "env_space_bathroom",
		QuestionText: "Is the bathroom somewhere you feel you have privacy? What would make it better?",
	},
	"outside": {
		ID:           "env_space_outside",
		QuestionText: "What draws you outside? Is there an outdoor spot that helps you reset?",
	},
	"garden": {
		ID:           "env_space_garden",
		QuestionText: "What does time in the garden give you that indoor spaces don't?",
	},
}

// themedFollowups 各主题的跟进问题列表
// 引擎按深度取模轮询选取，保证同一深度的选择可复现
var themedFollowups = map[string][]models.QuestionNode{
	models.ThemeSpace: {
		{ID: "env_space_general_1", QuestionText: "What is it about that space that stands out to you?"},
		{ID: "env_space_general_2", QuestionText: "If you could rearrange one thing in that space, what would it be?"},
	},
	models.ThemeFeeling: {
		{ID: "env_feeling_1", QuestionText: "When that feeling shows up, where in your environment are you usually?"},
		{ID: "env_feeling_2", QuestionText: "What in your surroundings tends to bring that feeling on?"},
		{ID: "env_feeling_3", QuestionText: "Is there a place you go when you want to change how you feel?"},
	},
	models.ThemePeople: {
		{ID: "env_people_1", QuestionText: "How do the people around you shape how your home feels?"},
		{ID: "env_people_2", QuestionText: "Who do you feel most at ease sharing space with?"},
		{ID: "env_people_3", QuestionText: "Is there someone you wish were closer to your daily life?"},
	},
	models.ThemeChallenge: {
		{ID: "env_challenge_1", QuestionText: "What makes that harder than it needs to be?"},
		{ID: "env_challenge_2", QuestionText: "What's one small change to your environment that could ease that?"},
	},
}

// genericQuestions 通用问题列表，按当前深度索引选取，超界时取最后一个
var genericQuestions = []models.QuestionNode{
	{ID: "env_generic_1", QuestionText: "What does a typical day look like in your current living situation?"},
	{ID: "env_generic_2", QuestionText: "What part of your routine feels most stable right now?"},
	{ID: "env_generic_3", QuestionText: "What would you like to be different about where you live?"},
	{ID: "env_generic_4", QuestionText: "What's one thing about your environment you're grateful for?"},
	{ID: "env_generic_5", QuestionText: "Looking ahead a few months, what do you hope your environment looks like?"},
}

// kpiFoundationID 结构化KPI评估的入口问题ID
const kpiFoundationID = "kpi_housing_stability"

// kpiQuestionBank 结构化KPI问题库，分支由显式自适应触发器决定
// 无触发器的节点为叶子：该分支到此结束
var kpiQuestionBank = map[string]models.KPIQuestion{
	kpiFoundationID: {
		ID:           kpiFoundationID,
		QuestionText: "How would you describe your current housing situation?",
		Options: []string{
			"Stable and expected to continue",
			"Stable but at risk",
			"Temporary or transitional",
			"No regular place to stay",
		},
		AdaptiveTriggers: []models.AdaptiveTrigger{
			{ResponseIndexes: []int{0}, NextQuestionID: "kpi_wellbeing"},
			{ResponseIndexes: []int{1, 2}, NextQuestionID: "kpi_housing_plan"},
			{ResponseIndexes: []int{3}, NextQuestionID: "kpi_crisis_support"},
		},
	},
	"kpi_housing_plan": {
		ID:           "kpi_housing_plan",
		QuestionText: "Do you have a plan for your next housing step?",
		Options: []string{
			"Yes, with concrete dates",
			"A rough idea",
			"No plan yet",
		},
		AdaptiveTriggers: []models.AdaptiveTrigger{
			{ResponseIndexes: []int{1, 2}, NextQuestionID: "kpi_crisis_support"},
		},
	},
	"kpi_wellbeing": {
		ID:           "kpi_wellbeing",
		QuestionText: "Over the past two weeks, how often have you felt at ease in your daily environment?",
		Options: []string{
			"Most days",
			"Some days",
			"Rarely",
		},
		AdaptiveTriggers: []models.AdaptiveTrigger{
			{ResponseIndexes: []int{2}, NextQuestionID: "kpi_support_network"},
		},
	},
	"kpi_crisis_support": {
		ID:           "kpi_crisis_support",
		QuestionText: "Do you currently have someone you can contact in an emergency?",
		Options: []string{
			"Yes",
			"Not sure",
			"No",
		},
		AdaptiveTriggers: []models.AdaptiveTrigger{
			{ResponseIndexes: []int{1, 2}, NextQuestionID: "kpi_support_network"},
		},
	},
	"kpi_support_network": {
		ID:           "kpi_support_network",
		QuestionText: "How connected do you feel to people who support your recovery?",
		Options: []string{
			"Very connected",
			"Somewhat connected",
			"Isolated",
		},
	},
}
