package assembler

import (
	"fmt"

	"api-scaffolder/internal/emitter"
)

// RootFiles returns the project-level files every scaffolded test project
// starts with. authTokenEnv names the environment variable the generated
// conftest reads the bearer token from.
func RootFiles(authTokenEnv string) []emitter.Artifact {
	return []emitter.Artifact{
		{Name: "requirements.txt", Content: requirementsTxt},
		{Name: "pytest.ini", Content: pytestIni},
		{Name: "README.md", Content: readmeMd},
		{Name: "Dockerfile", Content: dockerfile},
		{Name: "conftest.py", Content: fmt.Sprintf(conftestPy, authTokenEnv)},
		{Name: ".gitignore", Content: gitignore},
	}
}

const requirementsTxt = `attrs>=24.2.0
Faker>=13.12.0
jsonschema>=4.22.0
pytest>=8.3.3
requests>=2.32.3
pytest-repeat>=0.9.4
pytest-asyncio>=0.23.7
pytest-dependency>=0.6.0
pydantic>=2.9.2
pytest-rerunfailures>=15.1
allure-pytest>=2.8.18
httpx>=0.28.1
pyyaml>=6.0.2
apikit>=0.2.0
fake-useragent>=2.2.0
`

const pytestIni = `[pytest]
log_cli = 1
log_cli_level = INFO
log_cli_format = %(message)s
log_file = logs/pytest.log
log_file_level = INFO
asyncio_default_fixture_loop_scope=session
asyncio_mode=auto

markers =
    dev: test
    stage: test
    dependency: dependency_test
    asyncio: asyncio_request

addopts =
    --reruns=2
`

const readmeMd = `# API autotests

Generated test project scaffolded from an OpenAPI endpoint catalog.

Run with:

    pytest --domain <base-url> src/tests
`

const dockerfile = `FROM python:3.10-alpine

ARG run_env
ARG run_domain
ENV env $run_env
ENV domain $run_domain

WORKDIR /usr/autotests
COPY . .

RUN pip3 install -r requirements.txt

CMD pytest --domain "$domain" -m "$env" --verbose -o junit_family=xunit2 --junitxml=reports/pytest/result.xml -s src/tests
`

const conftestPy = `import os

import pytest
from apikit import ApiClient

from src.models.collections.collections_manager import ModelsManager


def pytest_addoption(parser):
    parser.addoption("--domain", action="store", default="http://localhost")


@pytest.fixture(scope="session")
def domain(request):
    return request.config.getoption("--domain")


@pytest.fixture(scope="session")
def api_client(domain):
    return ApiClient(domain=domain, verify=False)


@pytest.fixture(scope="session")
def auth_token():
    return os.environ.get(%q, "")


@pytest.fixture(scope="session")
def models(auth_token):
    return ModelsManager(token=auth_token)
`

const gitignore = `__pycache__/
*.py[cod]
.pytest_cache
.venv
venv/
env/
logs/
reports/
allure-results
allure-reports
.idea/
.env
api_reference.json
`
