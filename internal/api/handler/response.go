package handler

import (
	"io"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/agency-crm-api/pkg/action"
	"github.com/vfg2006/agency-crm-api/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodySize = 1 << 20

// binder monta a entrada da ação a partir da requisição
type binder[In any] func(r *http.Request) (In, error)

// serve liga uma ação a um handler HTTP. Falhas usam o status do código de erro.
func serve[In any, Out any](a *action.Action[In, Out], successStatus int, bind binder[In]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := bind(r)
		if err != nil {
			apiErrors.WriteAppError(w, err)
			return
		}

		result := a.Run(r.Context(), in)

		status := successStatus
		if !result.Success {
			status = apiErrors.HTTPStatus(result.Code)
		}

		writeJSON(w, status, result)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("Erro ao enviar resposta")
	}
}

// decodeBody lê o JSON do corpo; corpo vazio mantém o valor zero
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}

	err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(dst)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return apiErrors.Wrap(err, apiErrors.CodeValidation, "Formato de requisição inválido")
	}
	return nil
}

func pathParam(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}

// bindBody decodifica o corpo; setID, quando informado, recebe o :id da URL
func bindBody[In any](setID func(in *In, id string)) binder[In] {
	return func(r *http.Request) (In, error) {
		var in In
		if err := decodeBody(r, &in); err != nil {
			return in, err
		}
		if setID != nil {
			setID(&in, pathParam(r, "id"))
		}
		return in, nil
	}
}

func queryUint(r *http.Request, key string) (uint64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apiErrors.Validation(key, key+": deve ser um número inteiro positivo")
	}
	return value, nil
}
