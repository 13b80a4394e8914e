package lexicon

// English returns the built-in English lexicon.
func English() *Lexicon {
	return &Lexicon{
		Language:  "en",
		MatchMode: MatchPrefix,

		DecisionIndicators: []string{
			"decide", "decision", "agree", "approve", "confirm", "finalize", "finalise",
			"conclude", "resolve", "consensus", "adopt", "sign off", "go with", "settle",
			"merge", "reorganize", "establish", "launch",
		},
		DecisionWeights: map[string]int{
			"merge": 5, "reorganize": 5, "establish": 5, "launch": 4, "proceed": 4,
			"start": 4, "complete": 4, "review": 3, "plan": 4, "develop": 3,
			"decide": 5, "decision": 5, "finalize": 5, "confirm": 5, "approve": 5,
			"agree": 4, "adopt": 4, "allocate": 4, "hire": 3, "increase": 3, "reduce": 3,
		},
		DecisionPrefixes: []string{
			"to summarize the decisions", "to summarize", "the decision is that",
			"the decision is", "in conclusion", "we have agreed that", "we agreed that",
			"we decided that",
		},
		CourtesyPhrases:     []string{"thank you", "thanks", "please", "i agree", "sounds good"},
		NoDecisionSentinels: []string{"none", "no decision", "n/a", "null"},

		TopicTriggers: []string{"agenda", "topic", "discussion", "review", "decision"},
		TitlePrefixes: []string{"agenda:", "topic:", "discussion:", "review:", "next item:"},
		TitleKeywords: []string{
			"project", "development", "planning", "team", "organization", "staffing",
			"hiring", "budget", "schedule", "quality", "system", "technology",
			"customer", "market", "strategy", "operations", "management", "review",
			"integration", "restructuring",
		},
		TopicKeywords: []string{
			"project", "schedule", "budget", "team", "technology", "quality",
			"customer", "market", "development", "testing", "deployment",
			"maintenance", "security", "performance",
		},
		DefaultTopics: []Category{
			{Name: "Project planning", Keywords: []string{"plan", "schedule", "timeline", "deadline"}},
			{Name: "Technical review", Keywords: []string{"technical", "development", "code", "system"}},
			{Name: "Team collaboration", Keywords: []string{"team", "collaborat", "communicat", "opinion"}},
			{Name: "Quality management", Keywords: []string{"quality", "test", "verif", "check"}},
			{Name: "Business strategy", Keywords: []string{"strategy", "business", "market", "customer"}},
		},
		SpeakerInterests: []Category{
			{Name: "technology", Keywords: []string{"technolog", "technical", "development", "code", "program", "system", "platform"}},
			{Name: "project management", Keywords: []string{"schedule", "deadline", "plan", "progress", "manage", "timeline"}},
			{Name: "business", Keywords: []string{"revenue", "profit", "customer", "market", "strategy", "business"}},
			{Name: "teamwork", Keywords: []string{"collaborat", "team", "communicat", "opinion", "agree", "discuss"}},
			{Name: "quality", Keywords: []string{"quality", "test", "verif", "check", "inspect", "review"}},
		},

		PositiveCues: []string{
			"agree", "approve", "support", "good", "great", "effective", "success",
			"proceed", "go ahead", "in favor", "makes sense", "consensus", "decided",
		},
		NegativeCues: []string{
			"disagree", "oppose", "against", "bad", "inappropriate", "problem", "risk",
			"fail", "difficult", "impossible", "concern", "worried", "object",
		},
		NeutralCues: []string{
			"review", "discuss", "consider", "analy", "check", "additional", "again",
			"look into", "revisit",
		},

		DisagreementReasons: []Category{
			{Name: "time constraints", Keywords: []string{"time", "schedule", "deadline", "timeline", "period"}},
			{Name: "cost concerns", Keywords: []string{"cost", "budget", "expens", "price", "money"}},
			{Name: "technical limitations", Keywords: []string{"technical", "implement", "execution", "complex", "infrastructure"}},
			{Name: "staffing shortage", Keywords: []string{"staff", "headcount", "people", "owner", "role", "bandwidth"}},
			{Name: "risk factors", Keywords: []string{"risk", "uncertain", "unstable", "danger"}},
			{Name: "priority conflict", Keywords: []string{"priorit", "importan", "necess", "urgent"}},
		},

		Stopwords: []string{
			"a", "an", "the", "to", "of", "by", "for", "and", "or", "in", "on", "at",
			"with", "is", "are", "was", "were", "be", "been", "we", "will", "it",
			"that", "this", "our", "us", "so", "let", "lets",
		},
		StemSuffixes: []string{"ing", "ed", "es", "e", "s"},
		MinStemRunes: 3,

		SystemSpeaker:     "system",
		GeneralTopicTitle: "General discussion",
		ReasonUnspecified: "reason unspecified",
	}
}

// Korean returns the built-in Korean lexicon.
func Korean() *Lexicon {
	return &Lexicon{
		Language:  "ko",
		MatchMode: MatchSubstring,

		DecisionIndicators: []string{
			"결정", "확정", "의결", "합의", "동의", "승인", "결론", "통합", "개편", "설립", "추진",
		},
		DecisionWeights: map[string]int{
			"통합": 5, "개편": 5, "설립": 5, "추진": 4, "진행": 4, "시작": 4, "완료": 4,
			"검토": 3, "수립": 4, "개발": 3, "결정": 5, "확정": 5, "합의": 4, "동의": 3,
		},
		DecisionPrefixes: []string{
			"결정사항을 정리하겠습니다", "결정사항을 정리하면", "결정된 사항은", "결론은", "합의된 내용은",
		},
		CourtesyPhrases:     []string{"감사드립니다", "바랍니다", "하겠습니다", "동의합니다"},
		NoDecisionSentinels: []string{"없음", "none", "결정 없음"},

		TopicTriggers: []string{
			"안건", "주제", "토론", "검토", "논의", "의결", "결정", "확정",
			"agenda", "topic", "discussion", "review", "decision",
		},
		TitlePrefixes: []string{"안건:", "주제:", "토론:", "검토:", "논의:"},
		TitleKeywords: []string{
			"프로젝트", "개발", "기획", "팀", "조직", "인력", "채용", "예산", "일정", "품질",
			"시스템", "기술", "고객", "시장", "전략", "운영", "관리", "검토", "통합", "개편",
		},
		TopicKeywords: []string{
			"프로젝트", "일정", "예산", "팀", "기술", "품질", "고객", "시장",
			"개발", "테스트", "배포", "유지보수", "보안", "성능",
		},
		DefaultTopics: []Category{
			{Name: "프로젝트 계획", Keywords: []string{"계획", "일정", "스케줄", "마감"}},
			{Name: "기술 검토", Keywords: []string{"기술", "개발", "코드", "시스템"}},
			{Name: "팀 협력", Keywords: []string{"팀", "협력", "소통", "의견"}},
			{Name: "품질 관리", Keywords: []string{"품질", "테스트", "검증", "확인"}},
			{Name: "비즈니스 전략", Keywords: []string{"전략", "비즈니스", "시장", "고객"}},
		},
		SpeakerInterests: []Category{
			{Name: "기술", Keywords: []string{"기술", "개발", "코드", "프로그램", "시스템", "플랫폼"}},
			{Name: "프로젝트 관리", Keywords: []string{"일정", "마감", "계획", "진행", "관리", "스케줄"}},
			{Name: "비즈니스", Keywords: []string{"매출", "수익", "고객", "시장", "전략", "비즈니스"}},
			{Name: "팀워크", Keywords: []string{"협력", "팀", "소통", "의견", "합의", "토론"}},
			{Name: "품질", Keywords: []string{"품질", "테스트", "검증", "확인", "점검", "검토"}},
		},

		PositiveCues: []string{
			"좋", "찬성", "동의", "적절", "효과적", "성공", "진행하", "추진", "승인", "합의", "결정",
		},
		NegativeCues: []string{
			"나쁘", "반대", "부적절", "문제", "위험", "실패", "어렵", "불가능", "우려", "부정",
		},
		NeutralCues: []string{"검토", "논의", "고려", "분석", "확인", "추가", "다시"},

		DisagreementReasons: []Category{
			{Name: "시간적 제약", Keywords: []string{"시간", "일정", "기간"}},
			{Name: "비용 문제", Keywords: []string{"비용", "예산", "금액"}},
			{Name: "기술적 한계", Keywords: []string{"기술", "구현", "실행"}},
			{Name: "인력 부족", Keywords: []string{"인력", "담당자", "역할"}},
			{Name: "위험 요소", Keywords: []string{"위험", "리스크", "불확실"}},
			{Name: "우선순위 문제", Keywords: []string{"우선순위", "중요도", "필요성"}},
		},

		Stopwords:    []string{"그리고", "그래서", "그", "이", "저", "및"},
		StemSuffixes: []string{"에서", "으로", "을", "를", "이", "가", "은", "는", "로", "에", "의", "도"},
		MinStemRunes: 1,

		SystemSpeaker:     "시스템",
		GeneralTopicTitle: "일반 논의",
		ReasonUnspecified: "구체적인 이유가 명시되지 않음",
	}
}
