package timezone

import "time"

// Fuso padrão de novos estabelecimentos; cada salão pode configurar o seu.
const DefaultTimezone = "America/Sao_Paulo"

// IsValid aceita apenas nomes IANA carregáveis ("America/Recife").
func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolve o fuso do estabelecimento, caindo no padrão quando o
// valor salvo é vazio ou inválido.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

// NowIn é o relógio de parede do salão: slots passados e antecedência
// mínima são avaliados neste horário.
func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}
