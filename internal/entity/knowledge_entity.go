package entity

import "time"

type KnowledgeNugget struct {
	Id              string
	Title           string
	Content         string
	Keywords        string
	Language        string
	Type            string
	Tags            []string
	ArchetypeFilter []string
}

type GoldenStandard struct {
	Id             string
	TriggerContext string
	GoldenResponse string
	Category       string
	Language       string
	Tags           []string
	CreatedAt      *time.Time
}

type FeedbackGroup struct {
	ThemeName          string
	Count              int
	RepresentativeNote string
}
