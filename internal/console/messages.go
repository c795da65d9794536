package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rflorenc/resource-console/internal/models"
	"github.com/rflorenc/resource-console/internal/platform"
)

type operation string

const (
	opCreate operation = "create"
	opUpdate operation = "update"
	opRemove operation = "remove"
)

func successMessage(kind *models.Kind, op operation) string {
	switch op {
	case opCreate:
		return fmt.Sprintf("%s creado exitosamente", kind.Singular)
	case opUpdate:
		return fmt.Sprintf("%s actualizado exitosamente", kind.Singular)
	default:
		return "Eliminado exitosamente"
	}
}

func failureMessage(op operation, err error) string {
	switch {
	case errors.Is(err, platform.ErrNetworkFailure):
		return "Error de conexión"
	case errors.Is(err, models.ErrMissingIdentity):
		return "Registro sin identificador"
	case op == opRemove:
		return "Error al eliminar"
	default:
		return "Error al guardar"
	}
}

func loadFailureMessage(kind *models.Kind) string {
	return "Error al cargar " + strings.ToLower(kind.Label)
}

func emptyMessage(kind *models.Kind) string {
	return fmt.Sprintf("No hay %s registrados", strings.ToLower(kind.Label))
}

func validationMessage(err *ValidationError) string {
	labels := make([]string, len(err.Errors))
	for i, fe := range err.Errors {
		labels[i] = fe.Label
	}
	return "Revisa los campos: " + strings.Join(labels, ", ")
}
