// Package detect identifies what kind of project lives at a directory root.
// Detection is a weighted scoring pass over filesystem markers: each
// technology accumulates evidence independently, scores are capped at 1.0,
// and the ranked outcome records every marker that contributed.
package detect

// ProjectType names a detectable technology.
type ProjectType string

const (
	TypeDelphi  ProjectType = "delphi"
	TypeLaravel ProjectType = "laravel"
	TypePHP     ProjectType = "php"
	TypeNodeJS  ProjectType = "nodejs"
	TypeReact   ProjectType = "react"
	TypeVue     ProjectType = "vue"
	TypeAngular ProjectType = "angular"
	TypeUnknown ProjectType = "unknown"
)

// Extensions returns the source extensions characteristic of the type,
// lowercase without dots.
func (t ProjectType) Extensions() []string {
	switch t {
	case TypeDelphi:
		return []string{"pas", "dfm", "fmx", "dpr", "dpk", "dproj"}
	case TypeLaravel:
		return []string{"php", "blade.php", "vue", "js", "ts"}
	case TypePHP:
		return []string{"php"}
	case TypeNodeJS:
		return []string{"js", "jsx", "ts", "tsx"}
	case TypeReact:
		return []string{"jsx", "tsx", "js", "ts"}
	case TypeVue:
		return []string{"vue", "js", "ts"}
	case TypeAngular:
		return []string{"ts", "html"}
	default:
		return nil
	}
}

// Color returns the display color associated with the type.
func (t ProjectType) Color() string {
	switch t {
	case TypeDelphi:
		return "#E31D1D"
	case TypeLaravel:
		return "#FF2D20"
	case TypePHP:
		return "#777BB4"
	case TypeNodeJS:
		return "#339933"
	case TypeReact:
		return "#61DAFB"
	case TypeVue:
		return "#4FC08D"
	case TypeAngular:
		return "#DD0031"
	default:
		return "#6B7280"
	}
}

// ParserID maps a project type to the id of the parser that handles it.
func (t ProjectType) ParserID() string {
	switch t {
	case TypeDelphi:
		return "delphi"
	case TypeLaravel:
		return "laravel"
	case TypePHP:
		return "php"
	case TypeNodeJS, TypeReact, TypeVue, TypeAngular:
		return "nodejs"
	default:
		return "unknown"
	}
}
