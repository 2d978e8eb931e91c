package api

import (
	"github.com/samber/lo"
	"github.com/terraincognita07/vitalcheck/internal/services"
)

type flagView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type flagSetView struct {
	Red          []flagView `json:"red"`
	Yellow       []flagView `json:"yellow"`
	Achievements []flagView `json:"achievements"`
}

func (handler *Handler) localizeFlags(language string, flags services.FlagSet) flagSetView {
	localize := func(flag services.Flag, _ int) flagView {
		message := handler.i18n.Translate(language, "flag."+flag.Code)
		if message == "flag."+flag.Code {
			message = flag.Message
		}
		return flagView{Code: flag.Code, Message: message}
	}
	return flagSetView{
		Red:          lo.Map(flags.Red, localize),
		Yellow:       lo.Map(flags.Yellow, localize),
		Achievements: lo.Map(flags.Achievements, localize),
	}
}
