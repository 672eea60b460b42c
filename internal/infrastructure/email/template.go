package email

import (
	"fmt"
	"strings"
	"time"
)

// Nombres de meses en portugués para las variables de fecha de las plantillas.
var mesesPTBR = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// RenderTemplate sustituye los marcadores {{nombre}} de una plantilla.
// Las variables del llamador tienen prioridad sobre las incorporadas
// (data, data_extenso, mes, ano). Los marcadores desconocidos se
// conservan tal cual.
func RenderTemplate(template string, vars map[string]string, now time.Time) string {
	mes := mesesPTBR[now.Month()-1]
	merged := map[string]string{
		"data":         now.Format("02/01/2006"),
		"data_extenso": fmt.Sprintf("%d de %s de %d", now.Day(), mes, now.Year()),
		"mes":          mes,
		"ano":          fmt.Sprintf("%d", now.Year()),
	}
	for k, v := range vars {
		merged[k] = v
	}

	result := template
	for k, v := range merged {
		result = strings.ReplaceAll(result, "{{"+k+"}}", v)
	}
	return result
}
