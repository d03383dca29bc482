package config

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/v2"

	"github.com/sqlweave-labs/sqlweave/pkg/core"
)

// UnmarshalConf returns the koanf unmarshal configuration shared by the
// project and CLI loaders. The decode hook maps case_override strings to
// core.CaseOverride and splits comma separated lists from environment
// variables. strict rejects keys the target struct does not declare.
func UnmarshalConf(dst any, strict bool) koanf.UnmarshalConf {
	return koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				caseOverrideHook(),
			),
			ErrorUnused:      strict,
			WeaklyTypedInput: true,
			Result:           dst,
			TagName:          "koanf",
		},
	}
}

// caseOverrideHook decodes case_override strings into core.CaseOverride.
func caseOverrideHook() mapstructure.DecodeHookFuncType {
	target := reflect.TypeOf(core.CaseDefault)
	return func(from, to reflect.Type, data any) (any, error) {
		if to != target || from.Kind() != reflect.String {
			return data, nil
		}
		s := data.(string)
		ov, ok := core.ParseCaseOverride(s)
		if !ok {
			return nil, fmt.Errorf("invalid case_override %q (want default, lower, upper, or exact)", s)
		}
		return ov, nil
	}
}
