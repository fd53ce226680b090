package httpapi

import (
	"time"

	"github.com/riskibarqy/league-forecast/internal/coordinator"
	"github.com/riskibarqy/league-forecast/internal/domain/leaguestanding"
	"github.com/riskibarqy/league-forecast/internal/domain/rawdata"
	"github.com/riskibarqy/league-forecast/internal/domain/squad"
	"github.com/riskibarqy/league-forecast/internal/domain/teamstats"
	"github.com/riskibarqy/league-forecast/internal/presentation"
	"github.com/riskibarqy/league-forecast/internal/usecase"
)

type createSessionRequest struct {
	Season string `json:"season" validate:"omitempty,max=32"`
	Team   string `json:"team" validate:"omitempty,max=128"`
}

type actionRequest struct {
	Type  string `json:"type" validate:"required,oneof=select_season select_team clear_team"`
	Value string `json:"value" validate:"max=128"`
}

type seasonsDTO struct {
	Seasons  []string `json:"seasons"`
	Degraded bool     `json:"degraded"`
	Advisory string   `json:"advisory,omitempty"`
}

type standingsDTO struct {
	Season   string                   `json:"season"`
	Rows     []leaguestanding.Row     `json:"rows"`
	Table    []presentation.TableLine `json:"table"`
	Degraded bool                     `json:"degraded"`
	Advisory string                   `json:"advisory,omitempty"`
}

type teamDTO struct {
	Season   string              `json:"season"`
	Team     string              `json:"team"`
	Stats    teamstats.TeamStats `json:"stats"`
	Card     presentation.Card   `json:"card"`
	Degraded bool                `json:"degraded"`
	Advisory string              `json:"advisory,omitempty"`
}

type squadDTO struct {
	Team     string                    `json:"team"`
	Members  []squad.Member            `json:"members"`
	Cards    []presentation.PlayerCard `json:"cards"`
	Degraded bool                      `json:"degraded"`
	Advisory string                    `json:"advisory,omitempty"`
}

type viewDTO struct {
	Season    string       `json:"season"`
	Team      string       `json:"team,omitempty"`
	Seasons   seasonsDTO   `json:"seasons"`
	Standings standingsDTO `json:"standings"`
	TeamStats *teamDTO     `json:"teamStats,omitempty"`
	Squad     *squadDTO    `json:"squad,omitempty"`
}

type slotDTO[T any] struct {
	coordinator.Status
	Data T `json:"data"`
}

type standingsSlotData struct {
	Rows  []leaguestanding.Row     `json:"rows"`
	Table []presentation.TableLine `json:"table"`
}

type teamSlotData struct {
	Stats teamstats.TeamStats `json:"stats"`
	Card  presentation.Card   `json:"card"`
}

type squadSlotData struct {
	Members []squad.Member            `json:"members"`
	Cards   []presentation.PlayerCard `json:"cards"`
}

type sessionDTO struct {
	ID        string                     `json:"id"`
	Selection coordinator.Selection      `json:"selection"`
	Loading   bool                       `json:"loading"`
	Seasons   slotDTO[[]string]          `json:"seasons"`
	Standings slotDTO[standingsSlotData] `json:"standings"`
	Team      slotDTO[*teamSlotData]     `json:"team"`
	Squad     slotDTO[squadSlotData]     `json:"squad"`
}

type healthCheckDTO struct {
	Healthy bool       `json:"healthy"`
	Retried []string   `json:"retried"`
	Session sessionDTO `json:"session"`
}

type rawPayloadDTO struct {
	Source      string `json:"source"`
	Resource    string `json:"resource"`
	EntityKey   string `json:"entityKey"`
	Outcome     string `json:"outcome"`
	PayloadHash string `json:"payloadHash"`
	Payload     string `json:"payload"`
	FetchedAt   string `json:"fetchedAt"`
}

func seasonsToDTO(v usecase.SeasonsResult) seasonsDTO {
	seasons := v.Seasons
	if seasons == nil {
		seasons = []string{}
	}
	return seasonsDTO{
		Seasons:  seasons,
		Degraded: v.Advisory != "",
		Advisory: v.Advisory,
	}
}

func standingsToDTO(v usecase.StandingsResult) standingsDTO {
	rows := v.Rows
	if rows == nil {
		rows = []leaguestanding.Row{}
	}
	return standingsDTO{
		Season:   v.Season,
		Rows:     rows,
		Table:    presentation.StandingsTable(rows),
		Degraded: v.Advisory != "",
		Advisory: v.Advisory,
	}
}

// teamToDTO renders the card; totalTeams sizes the relegation band and may
// be 0 when no table is at hand.
func teamToDTO(v usecase.TeamResult, totalTeams int) teamDTO {
	return teamDTO{
		Season:   v.Season,
		Team:     v.Team,
		Stats:    v.Stats,
		Card:     presentation.TeamCard(v.Stats, totalTeams),
		Degraded: v.Advisory != "",
		Advisory: v.Advisory,
	}
}

func squadToDTO(v usecase.SquadResult) squadDTO {
	members := v.Members
	if members == nil {
		members = []squad.Member{}
	}
	return squadDTO{
		Team:     v.Team,
		Members:  members,
		Cards:    presentation.SquadCards(members),
		Degraded: v.Advisory != "",
		Advisory: v.Advisory,
	}
}

func viewToDTO(v usecase.ViewResult) viewDTO {
	out := viewDTO{
		Season:    v.Season,
		Team:      v.Team,
		Seasons:   seasonsToDTO(v.Seasons),
		Standings: standingsToDTO(v.Standings),
	}
	if v.TeamStats != nil {
		team := teamToDTO(*v.TeamStats, len(v.Standings.Rows))
		out.TeamStats = &team
	}
	if v.Squad != nil {
		sq := squadToDTO(*v.Squad)
		out.Squad = &sq
	}
	return out
}

func sessionToDTO(sessionID string, v coordinator.View) sessionDTO {
	out := sessionDTO{
		ID:        sessionID,
		Selection: v.Selection,
		Loading:   v.Loading(),
		Seasons:   slotDTO[[]string]{Status: v.Seasons.Status, Data: v.Seasons.Data},
		Standings: slotDTO[standingsSlotData]{
			Status: v.Standings.Status,
			Data: standingsSlotData{
				Rows:  v.Standings.Data,
				Table: presentation.StandingsTable(v.Standings.Data),
			},
		},
		Team:  slotDTO[*teamSlotData]{Status: v.Team.Status},
		Squad: slotDTO[squadSlotData]{
			Status: v.Squad.Status,
			Data: squadSlotData{
				Members: v.Squad.Data,
				Cards:   presentation.SquadCards(v.Squad.Data),
			},
		},
	}
	if out.Seasons.Data == nil {
		out.Seasons.Data = []string{}
	}
	if out.Standings.Data.Rows == nil {
		out.Standings.Data.Rows = []leaguestanding.Row{}
	}
	if out.Squad.Data.Members == nil {
		out.Squad.Data.Members = []squad.Member{}
	}
	if v.Team.Data != nil {
		out.Team.Data = &teamSlotData{
			Stats: *v.Team.Data,
			Card:  presentation.TeamCard(*v.Team.Data, len(v.Standings.Data)),
		}
	}
	return out
}

func rawPayloadToDTO(v rawdata.Payload) rawPayloadDTO {
	return rawPayloadDTO{
		Source:      v.Source,
		Resource:    v.Resource,
		EntityKey:   v.EntityKey,
		Outcome:     string(v.Outcome),
		PayloadHash: v.PayloadHash,
		Payload:     v.PayloadJSON,
		FetchedAt:   v.FetchedAt.UTC().Format(time.RFC3339),
	}
}
